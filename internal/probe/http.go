package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultUserAgent    = "urlchecker/1.0"
)

// HTTPChecker issues one GET per call on a client it builds and tears down itself.
type HTTPChecker struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	// TLSConfig is cloned into every transport. Nil means system defaults.
	TLSConfig *tls.Config
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPChecker{
		Timeout:      timeout,
		MaxRedirects: DefaultMaxRedirects,
		UserAgent:    DefaultUserAgent,
	}
}

func (h *HTTPChecker) Probe(ctx context.Context, rawURL string) (HTTPOutcome, error) {
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: h.Timeout}).DialContext,
		TLSClientConfig:     h.TLSConfig.Clone(),
		TLSHandshakeTimeout: h.Timeout,
		DisableKeepAlives:   true,
		ForceAttemptHTTP2:   true,
	}
	defer transport.CloseIdleConnections()

	maxRedirects := h.MaxRedirects
	client := &http.Client{
		Transport: transport,
		Timeout:   h.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return HTTPOutcome{}, err
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return HTTPOutcome{}, err
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	return HTTPOutcome{
		StatusCode: resp.StatusCode,
		Elapsed:    elapsed,
		FinalURL:   final,
		Redirected: final != rawURL,
	}, nil
}
