package memory

import (
	"context"
	"sync"

	"mareblu/internal/app/policies"
)

// VisitLog appends page visits to an in-memory slice.
type VisitLog struct {
	mu     sync.Mutex
	visits []policies.Visit
}

func NewVisitLog() *VisitLog {
	return &VisitLog{}
}

func (l *VisitLog) Append(ctx context.Context, visit policies.Visit) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visits = append(l.visits, visit)
	return nil
}

// Recent returns up to limit most recent visits, newest first.
func (l *VisitLog) Recent(ctx context.Context, limit int) ([]policies.Visit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.visits)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]policies.Visit, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.visits[i])
	}
	return out, nil
}

var _ policies.VisitLog = (*VisitLog)(nil)
