package probe

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/domain"
)

// Prober runs the per-URL pipeline: HTTP first, then TLS and DNS side by side.
type Prober struct {
	HTTP   HTTPProbe
	TLS    CertChecker
	DNS    Resolver
	Logger *zap.Logger
}

func NewProber(h HTTPProbe, t CertChecker, d Resolver, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{HTTP: h, TLS: t, DNS: d, Logger: logger}
}

// Options configures New.
type Options struct {
	HTTPTimeout time.Duration
	TLSTimeout  time.Duration
	DNSServer   string // empty selects the system resolver
	DNSTimeout  time.Duration
	Logger      *zap.Logger
}

// New wires the production checkers.
func New(opts Options) *Prober {
	var resolver Resolver = NewSystemResolver()
	if opts.DNSServer != "" {
		resolver = NewServerResolver(opts.DNSServer, opts.DNSTimeout, opts.Logger)
	}
	return NewProber(
		NewHTTPChecker(opts.HTTPTimeout),
		NewTLSChecker(opts.TLSTimeout),
		resolver,
		opts.Logger,
	)
}

// Probe never fails: an HTTP error becomes the error-shaped result and skips
// the TLS and DNS enrichment.
func (p *Prober) Probe(ctx context.Context, rawURL string) domain.ProbeResult {
	out, err := p.HTTP.Probe(ctx, rawURL)
	if err != nil {
		p.Logger.Debug("probe_failed", zap.String("url", rawURL), zap.Error(err))
		return domain.FailedResult(rawURL, err.Error())
	}

	var (
		wg       sync.WaitGroup
		sslValid bool
		res      Resolution
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sslValid = p.TLS.Check(ctx, rawURL)
	}()
	go func() {
		defer wg.Done()
		res = p.DNS.Resolve(ctx, hostOf(rawURL))
	}()
	wg.Wait()

	status := out.StatusCode
	ms := out.Elapsed.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	p.Logger.Debug("probe_done",
		zap.String("url", rawURL),
		zap.Int("status", status),
		zap.Int64("response_time_ms", ms),
		zap.Bool("ssl_valid", sslValid),
		zap.Bool("redirected", out.Redirected),
		zap.String("ip", res.String()),
	)

	return domain.ProbeResult{
		URL:            rawURL,
		StatusCode:     &status,
		ResponseTimeMS: &ms,
		SSLValid:       sslValid,
		Redirected:     out.Redirected,
		IP:             res.String(),
	}
}
