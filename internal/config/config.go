package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr   string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir string // logs directory

	PublicAPIKeys []string
	AdminAPIKeys  []string

	PublicRPM   int
	PublicBurst int
	AdminRPM    int
	AdminBurst  int

	// batch defaults; each API request may override them
	DefaultPort  int           // TLS port probed when the request omits one
	WarnDays     int           // warn when a certificate expires in <= this many days
	Workers      int           // bounded pool size per batch
	ProbeTimeout time.Duration // per-host dial + handshake budget

	SlackWebhook string
	CacheTTL     time.Duration // 0 disables result memoization expiry
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	return Config{
		Addr:   addr,
		LogDir: logDir,

		PublicAPIKeys: splitKeys(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:  splitKeys(os.Getenv("ADMIN_API_KEYS")),

		PublicRPM:   envInt("PUBLIC_RPM", 120, 0),
		PublicBurst: envInt("PUBLIC_BURST", 60, 0),
		AdminRPM:    envInt("ADMIN_RPM", 60, 0),
		AdminBurst:  envInt("ADMIN_BURST", 30, 0),

		DefaultPort:  envInt("DEFAULT_PORT", 443, 1),
		WarnDays:     envInt("WARN_DAYS", 15, 0),
		Workers:      envInt("MAX_WORKERS", 10, 1),
		ProbeTimeout: envDurationMS("PROBE_TIMEOUT_MS", 5*time.Second),

		SlackWebhook: os.Getenv("SLACK_WEBHOOK"),
		CacheTTL:     envDurationMS("CACHE_TTL_MS", 0),
	}
}

func splitKeys(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(name string, def, min int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

func envDurationMS(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
