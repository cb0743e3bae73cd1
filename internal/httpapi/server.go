package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/certwatch/internal/batch"
	"github.com/hamed0406/certwatch/internal/cache"
	apimw "github.com/hamed0406/certwatch/internal/httpapi/middleware"
	"github.com/hamed0406/certwatch/internal/notify"
	"github.com/hamed0406/certwatch/internal/probe"
	"github.com/hamed0406/certwatch/internal/report"
)

// Defaults fill in request fields the client leaves unset.
type Defaults struct {
	Port     int
	WarnDays int
	Workers  int
}

type Server struct {
	Logger   *zap.Logger
	Prober   probe.Prober
	Cache    cache.Store
	Notifier notify.Notifier
	Defaults Defaults
}

func NewServer(l *zap.Logger, p probe.Prober, c cache.Store, n notify.Notifier, d Defaults) *Server {
	return &Server{Logger: l, Prober: p, Cache: c, Notifier: n, Defaults: d}
}

func (s *Server) Router(keys apimw.Keys, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAny(keys))
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Post("/api/checks", s.handleRunChecks)
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RequireAdmin(keys))
		r.Use(apimw.RateLimit(adminRPM, adminBurst))
		r.Delete("/api/checks/cache", s.handlePurgeCache)
	})

	return r
}

type checksPayload struct {
	Hosts    []string `json:"hosts"`
	Port     int      `json:"port"`
	WarnDays *int     `json:"warn_days"` // pointer: 0 is a valid threshold
	Workers  int      `json:"workers"`
}

func (s *Server) handleRunChecks(w http.ResponseWriter, r *http.Request) {
	var p checksPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	port := p.Port
	if port == 0 {
		port = s.Defaults.Port
	}
	if port < 1 || port > 65535 {
		http.Error(w, "port out of range", http.StatusBadRequest)
		return
	}

	warnDays := s.Defaults.WarnDays
	if p.WarnDays != nil {
		if *p.WarnDays < 0 {
			http.Error(w, "warn_days must be >= 0", http.StatusBadRequest)
			return
		}
		warnDays = *p.WarnDays
	}

	workers := p.Workers
	if workers < 1 {
		workers = s.Defaults.Workers
	}

	key := cache.NewKey(p.Hosts, port, warnDays, workers)
	res, hit := s.Cache.Get(key)
	if !hit {
		runner := batch.NewRunner(s.Logger, s.Prober, warnDays, workers)
		runner.OnProgress = func(completed, total int) {
			s.Logger.Debug("batch_progress",
				zap.Int("completed", completed),
				zap.Int("total", total),
			)
		}

		var err error
		res, err = runner.Run(r.Context(), p.Hosts, port)
		if err != nil {
			http.Error(w, "no hosts to check", http.StatusBadRequest)
			return
		}
		s.Cache.Put(key, res)

		s.Logger.Info("batch_done",
			zap.Int("total", res.Summary.Total),
			zap.Int("ok", res.Summary.OK),
			zap.Int("warning", res.Summary.Warning),
			zap.Int("error", res.Summary.Error),
		)

		if s.Notifier != nil && notify.NeedsAlert(res) {
			title, text := notify.BatchAlert(res)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := s.Notifier.Send(ctx, title, text); err != nil {
					s.Logger.Warn("notify_error", zap.Error(err))
				}
			}()
		}
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ssl_expiry.csv"`)
		if err := report.WriteCSV(w, res); err != nil {
			s.Logger.Warn("csv_write_error", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handlePurgeCache(w http.ResponseWriter, r *http.Request) {
	s.Cache.Purge()
	s.Logger.Info("cache_purged")
	w.WriteHeader(http.StatusNoContent)
}
