package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/urlchecker/internal/domain"
	"github.com/hamed0406/urlchecker/internal/repo"
)

const DefaultCapacity = 500

// Store is a fixed-size ring of the most recent results. Nothing survives a restart.
type Store struct {
	mu    sync.RWMutex
	buf   []domain.ProbeResult
	next  int
	count int
}

var _ repo.HistoryStore = (*Store)(nil)

func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{buf: make([]domain.ProbeResult, capacity)}
}

func (m *Store) Append(ctx context.Context, results []domain.ProbeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		m.buf[m.next] = r
		m.next = (m.next + 1) % len(m.buf)
		if m.count < len(m.buf) {
			m.count++
		}
	}
	return nil
}

func (m *Store) Recent(ctx context.Context, limit int) ([]domain.ProbeResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.ProbeResult, 0, n)
	// oldest of the n newest entries
	start := (m.next - n + len(m.buf)) % len(m.buf)
	for i := 0; i < n; i++ {
		out = append(out, m.buf[(start+i)%len(m.buf)])
	}
	return out, nil
}
