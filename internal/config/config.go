package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	Addr        string // API bind address, e.g. "127.0.0.1:8080" or ":8080" (Docker)
	LogDir      string // logs directory
	LogLevel    string // debug | info | warn | error
	LogToStderr bool   // tee log lines to stderr as well as the file

	HTTPTimeout time.Duration // HTTP probe total timeout
	TLSTimeout  time.Duration // TLS connect + handshake timeout
	DNSServer   string        // empty means the OS resolver
	DNSTimeout  time.Duration // per query, only with DNSServer

	MaxConcurrency    int // 0 = unbounded fan-out
	MaxURLsPerRequest int
	HistorySize       int

	AllowedOrigins  []string // empty allows every origin
	SlackWebhookURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8080")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_stderr", false)

	v.SetDefault("http_timeout_ms", 10000)
	v.SetDefault("tls_timeout_ms", 5000)
	v.SetDefault("dns_server", "")
	v.SetDefault("dns_timeout_ms", 2000)

	v.SetDefault("max_concurrency", 0)
	v.SetDefault("max_urls_per_request", 50)
	v.SetDefault("history_size", 500)

	v.SetDefault("allowed_origins", "")
	v.SetDefault("slack_webhook_url", "")
}

// Load reads defaults, then the optional CONFIG_FILE, then environment
// variables (ADDR, LOG_DIR, HTTP_TIMEOUT_MS, ...), which win.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Addr:              strings.TrimSpace(v.GetString("addr")),
		LogDir:            v.GetString("log_dir"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		LogToStderr:       v.GetBool("log_stderr"),
		HTTPTimeout:       time.Duration(v.GetInt("http_timeout_ms")) * time.Millisecond,
		TLSTimeout:        time.Duration(v.GetInt("tls_timeout_ms")) * time.Millisecond,
		DNSServer:         strings.TrimSpace(v.GetString("dns_server")),
		DNSTimeout:        time.Duration(v.GetInt("dns_timeout_ms")) * time.Millisecond,
		MaxConcurrency:    v.GetInt("max_concurrency"),
		MaxURLsPerRequest: v.GetInt("max_urls_per_request"),
		HistorySize:       v.GetInt("history_size"),
		AllowedOrigins:    splitList(v.GetString("allowed_origins")),
		SlackWebhookURL:   strings.TrimSpace(v.GetString("slack_webhook_url")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once as a multierr error.
func (c Config) Validate() error {
	var errs error
	if c.Addr == "" {
		errs = multierr.Append(errs, fmt.Errorf("ADDR must not be empty"))
	}
	if c.LogDir == "" {
		errs = multierr.Append(errs, fmt.Errorf("LOG_DIR must not be empty"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.HTTPTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("HTTP_TIMEOUT_MS must be > 0"))
	}
	if c.TLSTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("TLS_TIMEOUT_MS must be > 0"))
	}
	if c.DNSServer != "" && c.DNSTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("DNS_TIMEOUT_MS must be > 0 when DNS_SERVER is set"))
	}
	if c.MaxConcurrency < 0 {
		errs = multierr.Append(errs, fmt.Errorf("MAX_CONCURRENCY must be >= 0"))
	}
	if c.MaxURLsPerRequest < 0 {
		errs = multierr.Append(errs, fmt.Errorf("MAX_URLS_PER_REQUEST must be >= 0"))
	}
	if c.HistorySize <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("HISTORY_SIZE must be > 0"))
	}
	return errs
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
