package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jbweber/homelab/roster/internal/datastore"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlRepository holds what the SQL-backed repositories share: the datastore,
// a statement cache for reads outside transactions, and the lock that
// serialises ID and sequence assignment.
type sqlRepository struct {
	ds    *datastore.Datastore
	stmts *PreparedStatementCache
	table  string
	kind   string
	logger *slog.Logger

	writeMu sync.Mutex
}

func newSQLRepository(ds *datastore.Datastore, table, kind string, logger *slog.Logger) *sqlRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqlRepository{
		ds:     ds,
		stmts:  NewPreparedStatementCache(ds.DB),
		table:  table,
		kind:   kind,
		logger: logger.With("table", table),
	}
}

// query runs a cached, rebound statement outside any transaction
func (r *sqlRepository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := r.stmts.Get(ctx, r.ds.Rebind(query))
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

// exec runs a cached, rebound statement outside any transaction
func (r *sqlRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := r.stmts.Get(ctx, r.ds.Rebind(query))
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

// inTx runs fn inside a transaction. Statements issued through tx must not
// touch the cache, which prepares on the pool and could wait on the
// connection the transaction holds.
func (r *sqlRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.ds.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.WarnContext(ctx, "failed to roll back transaction", "error", rollbackErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// assignIdentity resolves the ID and insertion sequence for a new row.
// Must be called with writeMu held.
func (r *sqlRepository) assignIdentity(ctx context.Context, q querier, id int64) (int64, int64, error) {
	if id < 0 {
		return 0, 0, fmt.Errorf("%s ID %d is negative: %w", r.kind, id, ErrInvalidEntity)
	}
	if id == 0 {
		// The increment happens in Go; sqlite promotes an overflowing MAX(id) + 1 to REAL
		var highest int64
		err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM "+r.table).Scan(&highest)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to assign %s ID: %w", r.kind, err)
		}
		if id, err = successorID(r.kind, highest); err != nil {
			return 0, 0, err
		}
	} else {
		exists, err := r.existsIn(ctx, q, id)
		if err != nil {
			return 0, 0, err
		}
		if exists {
			return 0, 0, fmt.Errorf("%s with ID %d: %w", r.kind, id, ErrDuplicate)
		}
	}

	var seq int64
	err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM "+r.table).Scan(&seq)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to assign %s sequence: %w", r.kind, err)
	}
	return id, seq, nil
}

func (r *sqlRepository) existsIn(ctx context.Context, q querier, id int64) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, r.ds.Rebind("SELECT COUNT(*) FROM "+r.table+" WHERE id = ?"), id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", r.kind, err)
	}
	return count > 0, nil
}

// ExistsByID checks if a row exists by its ID
func (r *sqlRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.existsIn(ctx, r.ds.DB, id)
}

// Close releases the cached statements
func (r *sqlRepository) Close() error {
	return r.stmts.Close()
}

func (r *sqlRepository) notFound(id int64) error {
	return fmt.Errorf("%s with ID %d: %w", r.kind, id, ErrNotFound)
}
