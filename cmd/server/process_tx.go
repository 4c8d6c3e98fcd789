package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	processservice "protocolo/internal/process/service"
	processstore "protocolo/internal/process/store"
	dErrors "protocolo/pkg/domain-errors"
)

const defaultProcessTxTimeout = 5 * time.Second

// processSQLTx runs each process command inside one database transaction.
type processSQLTx struct {
	db      *sqlx.DB
	timeout time.Duration
}

func newProcessSQLTx(db *sqlx.DB, timeout time.Duration) *processSQLTx {
	return &processSQLTx{db: db, timeout: timeout}
}

func (t *processSQLTx) RunInTx(ctx context.Context, fn func(store processservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultProcessTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(processstore.NewSQLTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
