package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/quote"
	"github.com/etnz/longshort/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// serveCmd exposes the reports over HTTP.
type serveCmd struct {
	addr string
	ttl  time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reports as a read only JSON API" }
func (*serveCmd) Usage() string {
	return `lsdesk serve [-addr <host:port>] [-ttl <duration>]

  Serves the positions, clients, advisors and monthly results of the document as JSON, and
  the exports under /api/report.<format>. Every request reads the document again and
  resolves the quotes again, unless -ttl lets requests share them for a while.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, defaults to the configured one")
	f.DurationVar(&c.ttl, "ttl", 0, "How long a quote is shared between requests, 0 for not at all")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		handler, err := newServer(d, c.ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		addr := c.addr
		if addr == "" {
			addr = d.cfg.Server.Addr
		}
		srv := &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		log := d.log.With().Str("component", "server").Logger()
		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("starting HTTP server")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		case <-ctx.Done():
		}
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("shutdown failed")
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

// server evaluates the desk for each request. Passes are serialized, within ttl they share
// the quotes through a Memo.
type server struct {
	desk   *desk
	log    zerolog.Logger
	quotes *quote.Memo
	mu     sync.Mutex
}

// newServer builds the HTTP handler of the desk.
func newServer(d *desk, ttl time.Duration) (http.Handler, error) {
	r, err := d.quotes()
	if err != nil {
		return nil, err
	}
	s := &server{
		desk:   d,
		log:    d.log.With().Str("component", "server").Logger(),
		quotes: quote.NewMemo(r, ttl),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.loggingMiddleware)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", s.handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.Get("/clients", s.handleClients)
		r.Get("/advisors", s.handleAdvisors)
		r.Get("/monthly", s.handleMonthly)
		r.Get("/report.{format}", s.handleReport)
	})
	return router, nil
}

func (s *server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// pass reloads the document and values it. Without quotes it only values the closed
// operations.
func (s *server) pass(ctx context.Context, withQuotes bool) (*longshort.Snapshot, *longshort.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.desk.reload(ctx); err != nil {
		return nil, nil, err
	}
	precedence, err := longshort.ParsePrecedence(s.desk.cfg.Targets.Precedence)
	if err != nil {
		return nil, nil, err
	}
	var r longshort.QuoteResolver
	if withQuotes {
		r = s.quotes
	}
	snap := s.desk.session.Snapshot()
	pass := longshort.Evaluate(ctx, snap, r, longshort.EvaluateOptions{Precedence: precedence, Logger: s.desk.log})
	return snap, pass, nil
}

// queryFilter reads the selection from the query, with the same names as the flags.
func queryFilter(r *http.Request) (longshort.Filter, error) {
	q := r.URL.Query()
	ff := filterFlags{
		status:   q.Get("status"),
		advisors: q.Get("advisor"),
		clients:  q.Get("client"),
		month:    q.Get("month"),
	}
	return ff.filter()
}

// report evaluates the selection of the request, it writes the error itself.
func (s *server) report(w http.ResponseWriter, r *http.Request) (*longshort.Report, bool) {
	filter, err := queryFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	snap, pass, err := s.pass(r.Context(), true)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return longshort.NewReport("Long & Short", snap, pass, filter), true
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"document": s.desk.cfg.Document,
	})
}

func (s *server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if rep, ok := s.report(w, r); ok {
		s.writeJSON(w, http.StatusOK, rep)
	}
}

func (s *server) handleClients(w http.ResponseWriter, r *http.Request) {
	if rep, ok := s.report(w, r); ok {
		s.writeJSON(w, http.StatusOK, rep.Clients)
	}
}

func (s *server) handleAdvisors(w http.ResponseWriter, r *http.Request) {
	if rep, ok := s.report(w, r); ok {
		s.writeJSON(w, http.StatusOK, rep.Advisors)
	}
}

// handleMonthly serves the closed result of each month, as JSON or as a PNG chart with
// format=png.
func (s *server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, pass, err := s.pass(r.Context(), false)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	year := time.Now().Year()
	if years := longshort.ClosingYears(snap); len(years) > 0 {
		year = years[0]
	}
	if y := r.URL.Query().Get("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", y))
			return
		}
	}
	months := longshort.MonthlyClosed(pass.Positions, year, filter)

	if r.URL.Query().Get("format") == "png" {
		png, err := renderer.MonthlyChart(year, months)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": months})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := renderer.Export(&buf, format, rep); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
