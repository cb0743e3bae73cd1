package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamed0406/certwatch/internal/cache"
	"github.com/hamed0406/certwatch/internal/config"
	"github.com/hamed0406/certwatch/internal/httpapi"
	apimw "github.com/hamed0406/certwatch/internal/httpapi/middleware"
	"github.com/hamed0406/certwatch/internal/logging"
	"github.com/hamed0406/certwatch/internal/notify"
	"github.com/hamed0406/certwatch/internal/probe"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var notifier notify.Notifier
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifier = s
	}

	api := httpapi.NewServer(
		logger,
		probe.NewTLSProber(cfg.ProbeTimeout),
		cache.NewMemory(cfg.CacheTTL),
		notifier,
		httpapi.Defaults{
			Port:     cfg.DefaultPort,
			WarnDays: cfg.WarnDays,
			Workers:  cfg.Workers,
		},
	)

	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	router := api.Router(keys, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst)

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
