// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/urlchecker/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load()
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
		os.Exit(1)
	}

	ok("ADDR=" + cfg.Addr)
	if strings.HasPrefix(cfg.Addr, ":") || strings.HasPrefix(cfg.Addr, "0.0.0.0") {
		warn("ADDR listens on every interface; the API has no authentication.")
	}
	ok(fmt.Sprintf("LOG_DIR=%s LOG_LEVEL=%s", cfg.LogDir, cfg.LogLevel))
	ok(fmt.Sprintf("timeouts http=%s tls=%s", cfg.HTTPTimeout, cfg.TLSTimeout))

	if cfg.DNSServer == "" {
		ok("DNS_SERVER empty; using the system resolver")
	} else {
		ok(fmt.Sprintf("DNS_SERVER=%s timeout=%s", cfg.DNSServer, cfg.DNSTimeout))
	}

	if cfg.MaxConcurrency == 0 {
		warn(fmt.Sprintf("MAX_CONCURRENCY=0; a batch opens up to %d probes at once", cfg.MaxURLsPerRequest))
	} else {
		ok(fmt.Sprintf("MAX_CONCURRENCY=%d", cfg.MaxConcurrency))
	}
	if cfg.MaxURLsPerRequest == 0 {
		warn("MAX_URLS_PER_REQUEST=0; batch size is unlimited")
		if cfg.MaxConcurrency > 0 {
			warn("MAX_URLS_PER_REQUEST=0 with MAX_CONCURRENCY set; a large batch can run for a very long time.")
		}
	} else {
		ok(fmt.Sprintf("MAX_URLS_PER_REQUEST=%d", cfg.MaxURLsPerRequest))
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; failure notifications are off.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	ok("preflight passed")
}
