package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/urlchecker/internal/domain"
	"github.com/hamed0406/urlchecker/internal/metrics"
)

// ErrCoordination marks a failure of the fan-out itself, never of a single probe.
var ErrCoordination = errors.New("batch coordination failed")

// URLProber turns one URL into one result and must not fail.
type URLProber interface {
	Probe(ctx context.Context, rawURL string) domain.ProbeResult
}

// Report is a completed batch. Results[i] belongs to the i-th input URL.
type Report struct {
	ID      string
	Results []domain.ProbeResult
	Elapsed time.Duration
}

func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Coordinator holds only configuration, so one value can serve concurrent batches.
type Coordinator struct {
	Logger *zap.Logger
	Prober URLProber
	// MaxConcurrency caps in-flight probes per batch; 0 means one goroutine per URL at once.
	MaxConcurrency int
	Metrics        *metrics.Collector
}

func NewCoordinator(logger *zap.Logger, prober URLProber, maxConcurrency int, m *metrics.Collector) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrency < 0 {
		maxConcurrency = 0
	}
	return &Coordinator{
		Logger:         logger,
		Prober:         prober,
		MaxConcurrency: maxConcurrency,
		Metrics:        m,
	}
}

// Run probes every URL and returns all results or one aggregate error, never a
// partial list.
func (c *Coordinator) Run(ctx context.Context, urls []string) (*Report, error) {
	rep := &Report{
		ID:      uuid.NewString(),
		Results: make([]domain.ProbeResult, len(urls)),
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if c.MaxConcurrency > 0 {
		g.SetLimit(c.MaxConcurrency)
	}
	for i, u := range urls {
		i, u := i, u
		g.Go(func() (err error) {
			c.Metrics.ProbeStarted()
			defer c.Metrics.ProbeEnded()
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("%w: probe %d (%s) panicked: %v", ErrCoordination, i, u, rec)
				}
			}()

			res := c.Prober.Probe(gctx, u)
			c.Metrics.RecordProbe(res)
			// each goroutine owns exactly one slot
			rep.Results[i] = res
			return nil
		})
	}
	err := g.Wait()
	rep.Elapsed = time.Since(start)
	c.Metrics.BatchFinished(len(urls), rep.Elapsed.Seconds(), err)

	if err != nil {
		c.Logger.Error("batch_failed",
			zap.String("batch_id", rep.ID),
			zap.Int("urls", len(urls)),
			zap.Error(err),
		)
		return nil, err
	}

	c.Logger.Info("batch_done",
		zap.String("batch_id", rep.ID),
		zap.Int("urls", len(urls)),
		zap.Int("failed", rep.Failed()),
		zap.Int("max_concurrency", c.MaxConcurrency),
		zap.Int64("elapsed_ms", rep.Elapsed.Milliseconds()),
	)
	return rep, nil
}
