package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/date"
)

// filterFlags are the selection flags shared by the reports.
type filterFlags struct {
	status   string
	advisors string
	clients  string
	month    string
}

func (ff *filterFlags) register(f *flag.FlagSet) {
	f.StringVar(&ff.status, "status", "all", "Operations to report: all, active or closed")
	f.StringVar(&ff.advisors, "advisor", "", "Comma separated advisors to report on, all by default")
	f.StringVar(&ff.clients, "client", "", "Comma separated clients to report on, all by default")
	f.StringVar(&ff.month, "month", "", "Only operations closed in that month (YYYY-MM)")
}

func (ff *filterFlags) filter() (longshort.Filter, error) {
	status, err := longshort.ParseStatusFilter(ff.status)
	if err != nil {
		return longshort.Filter{}, err
	}
	f := longshort.Filter{
		Status:   status,
		Advisors: splitList(ff.advisors),
		Clients:  splitList(ff.clients),
	}
	if ff.month != "" {
		if f.Closing, err = date.ParseMonth(ff.month); err != nil {
			return longshort.Filter{}, err
		}
	}
	return f, nil
}

func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
