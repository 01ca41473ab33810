package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// maxListed caps the failed URLs spelled out in one message.
const maxListed = 10

// FailureMessage summarises the failed probes of a batch. ok is false when nothing failed.
func FailureMessage(batchID string, results []domain.ProbeResult) (title, text string, ok bool) {
	var failed []domain.ProbeResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return "", "", false
	}

	title = fmt.Sprintf("urlchecker: %d of %d URLs failed", len(failed), len(results))
	var b strings.Builder
	fmt.Fprintf(&b, "batch `%s`\n", batchID)
	for i, r := range failed {
		if i == maxListed {
			fmt.Fprintf(&b, "…and %d more\n", len(failed)-maxListed)
			break
		}
		fmt.Fprintf(&b, "• %s: %s\n", r.URL, r.Error)
	}
	return title, strings.TrimRight(b.String(), "\n"), true
}

// Dispatcher sends failure messages in the background. A nil *Dispatcher is a no-op.
type Dispatcher struct {
	Notifier Notifier
	Logger   *zap.Logger
	Timeout  time.Duration
}

func NewDispatcher(n Notifier, logger *zap.Logger) *Dispatcher {
	if n == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Notifier: n, Logger: logger, Timeout: 10 * time.Second}
}

// BatchFailures fires one message if any result failed. The returned channel
// closes once delivery finished; callers normally ignore it.
func (d *Dispatcher) BatchFailures(batchID string, results []domain.ProbeResult) <-chan struct{} {
	done := make(chan struct{})
	if d == nil {
		close(done)
		return done
	}
	title, text, ok := FailureMessage(batchID, results)
	if !ok {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
		defer cancel()
		if err := d.Notifier.Send(ctx, title, text); err != nil {
			d.Logger.Warn("notify_failed", zap.String("batch_id", batchID), zap.Error(err))
			return
		}
		d.Logger.Info("notify_sent", zap.String("batch_id", batchID))
	}()
	return done
}
