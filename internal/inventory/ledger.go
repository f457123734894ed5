// Package inventory owns the authoritative stock counter. Reserve and
// Release are each a single conditional UPDATE so concurrent purchases of
// the same product serialize at the row level and stock can never go
// negative, no matter how requests interleave.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Ledger interface {
	// Reserve decrements stock by qty and returns the new stock. It fails
	// with apperr.InsufficientStockError when fewer than qty units are
	// available, without mutating anything.
	Reserve(ctx context.Context, productID string, qty int) (int, error)
	// Release increments stock by qty and returns the new stock. Callers
	// must only release quantities they previously reserved; the transition
	// guard on orders enforces that.
	Release(ctx context.Context, productID string, qty int) (int, error)
}

type PostgresLedger struct {
	pool DBPool
}

func NewPostgresLedger(pool DBPool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) Reserve(ctx context.Context, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, apperr.Validationf("quantity must be at least 1")
	}

	// Conditional decrement: the WHERE clause is the availability check, so
	// the read and the write are one statement and lost updates are
	// impossible.
	var stock int
	err := l.pool.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock
	`, productID, qty).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("reserve stock: %w", err)
	}

	// No row matched: either the product is gone or stock is short. Re-read
	// to tell the two apart and to report availability.
	var name string
	var available int
	err = l.pool.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1`, productID).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return 0, &apperr.InsufficientStockError{ProductID: productID, Name: name, Available: available}
}

func (l *PostgresLedger) Release(ctx context.Context, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, apperr.Validationf("quantity must be at least 1")
	}

	var stock int
	err := l.pool.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock
	`, productID, qty).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("release stock: %w", err)
	}
	return stock, nil
}
