package service

import (
	"context"
	"sync"
	"time"

	dErrors "protocolo/pkg/domain-errors"
)

// defaultTxTimeout is the maximum duration for a process transaction.
const defaultTxTimeout = 5 * time.Second

// inMemoryTx serializes writers with a single lock. It gives isolation for the
// memory store, not rollback.
type inMemoryTx struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store)
}
