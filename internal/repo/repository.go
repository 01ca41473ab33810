package repo

import (
	"context"

	"github.com/hamed0406/urlchecker/internal/domain"
)

// HistoryStore keeps recently returned results for stats and export.
// Implementations must be safe for concurrent use.
type HistoryStore interface {
	Append(ctx context.Context, results []domain.ProbeResult) error
	// Recent returns up to limit results, oldest first. limit <= 0 means all retained.
	Recent(ctx context.Context, limit int) ([]domain.ProbeResult, error)
}
