package probe

import (
	"context"
	"net/url"
	"time"
)

// HTTPOutcome is what a completed HTTP probe observed.
type HTTPOutcome struct {
	StatusCode int
	Elapsed    time.Duration
	FinalURL   string
	Redirected bool
}

// HTTPProbe fetches a URL. A non-nil error means the request never completed.
type HTTPProbe interface {
	Probe(ctx context.Context, rawURL string) (HTTPOutcome, error)
}

// CertChecker reports whether the URL's host presents a certificate on 443.
type CertChecker interface {
	Check(ctx context.Context, rawURL string) bool
}

// Resolver maps a hostname to an address or a sentinel. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, host string) Resolution
}

// hostOf pulls the hostname from a URL string, or "" when there is none.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
