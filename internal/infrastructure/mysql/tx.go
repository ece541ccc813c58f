package mysql

import (
	"context"
	"database/sql"
)

// DBTX is the statement surface shared by *sql.DB and *sql.Tx. Repositories
// take it for transaction-scoped operations so services can be unit-tested
// without a live database.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tx is the transaction handle services work against.
type Tx interface {
	DBTX
	Commit() error
	Rollback() error
}

// TxManager adapts *sql.DB so BeginTx returns the Tx interface.
type TxManager struct {
	DB *sql.DB
}

func (m TxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return m.DB.BeginTx(ctx, opts)
}
