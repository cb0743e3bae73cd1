// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	apiAddr := strings.TrimSpace(os.Getenv("ADDR"))
	webhook := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (cache admin routes will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (check routes will 401).")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if apiAddr == "" {
		warn("ADDR is empty; default in your app may be used.")
	} else {
		ok("ADDR=" + apiAddr)
	}

	if v := os.Getenv("DEFAULT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 || n > 65535 {
			fail("DEFAULT_PORT must be in 1..65535, got " + v)
		} else {
			ok("DEFAULT_PORT=" + v)
		}
	}

	if v := os.Getenv("WARN_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			fail("WARN_DAYS must be a non-negative integer, got " + v)
		} else {
			ok("WARN_DAYS=" + v)
		}
	}

	if v := os.Getenv("MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 {
			fail("MAX_WORKERS must be a positive integer, got " + v)
		} else {
			ok("MAX_WORKERS=" + v)
		}
	}

	if webhook == "" {
		warn("SLACK_WEBHOOK empty — batch alerts are disabled.")
	} else {
		ok("SLACK_WEBHOOK present")
	}

	ok("preflight passed")
}
