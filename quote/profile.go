package quote

import (
	"fmt"

	"github.com/etnz/longshort/config"
	"github.com/rs/zerolog"
)

// Profile names.
const (
	Delayed  = "delayed"  // daily close only
	Intraday = "intraday" // intraday, snapshot, daily
	Premium  = "premium"  // EODHD real-time first, then intraday
)

// Profile builds the Chain of the configured profile. A configured feed is always tried first.
// The premium profile without an EODHD key degrades to intraday.
func Profile(cfg config.QuotesConfig, log zerolog.Logger) (*Chain, error) {
	var sources []Source
	if cfg.Feed.URL != "" {
		sources = append(sources, NewFeed(FeedConfig{
			URL:       cfg.Feed.URL,
			PricePath: cfg.Feed.PricePath,
			NamePath:  cfg.Feed.NamePath,
			TimePath:  cfg.Feed.TimePath,
		}, nil))
	}

	profile := cfg.Profile
	if profile == "" {
		profile = Intraday
	}
	if profile == Premium && cfg.EODHD.APIKey == "" {
		log.Warn().Msg("premium quote profile without EODHD api key, using intraday")
		profile = Intraday
	}

	switch profile {
	case Delayed:
		sources = append(sources, NewYahooDaily(log))
	case Intraday:
		sources = append(sources, NewYahooIntraday(log), NewYahooSnapshot(log), NewYahooDaily(log))
	case Premium:
		sources = append(sources,
			NewEODHD(cfg.EODHD.APIKey,
				WithBaseURL(cfg.EODHD.BaseURL),
				WithRateLimit(cfg.EODHD.RateLimit),
				WithTimeout(cfg.EODHD.GetTimeout()),
				WithLogger(log),
			),
			NewYahooIntraday(log), NewYahooSnapshot(log), NewYahooDaily(log))
	default:
		return nil, fmt.Errorf("unknown quote profile %q", cfg.Profile)
	}

	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return NewChain(suffix, log, sources...), nil
}
