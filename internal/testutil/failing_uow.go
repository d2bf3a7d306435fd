package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/db"
)

// FailingUoW is a UnitOfWork whose transactions fail the FailOn-th write
// (counting from 1) whose SQL contains Match, so tests can break a bulk
// operation halfway and check that nothing before the failure persisted.
// An empty Match counts every write. Reads are never counted.
type FailingUoW struct {
	DB     *sql.DB
	Match  string
	FailOn int
	Err    error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow    *FailingUoW
	writes int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.writes++
		if f.writes == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// ReplayingUoW runs fn once in a transaction it rolls back, then again in
// one it commits, the way a transaction that hit SQLITE_BUSY is replayed.
// Calls counts every invocation of fn.
type ReplayingUoW struct {
	DB    *sql.DB
	Calls int
}

func (u *ReplayingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	for attempt := 0; ; attempt++ {
		tx, err := u.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		u.Calls++
		if err := fn(ctx, tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if attempt == 0 {
			_ = tx.Rollback()
			continue
		}
		return tx.Commit()
	}
}
