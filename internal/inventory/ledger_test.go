package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

func newMockLedger(t *testing.T) (pgxmock.PgxPoolIface, *PostgresLedger) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewPostgresLedger(mock)
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements and returns new stock", func(t *testing.T) {
		mock, ledger := newMockLedger(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs("p1", 2).
			WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(3))

		stock, err := ledger.Reserve(ctx, "p1", 2)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if stock != 3 {
			t.Fatalf("stock = %d, want 3", stock)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("insufficient stock reports availability", func(t *testing.T) {
		mock, ledger := newMockLedger(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs("p1", 5).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT name, stock FROM products`).
			WithArgs("p1").
			WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Widget", 1))

		_, err := ledger.Reserve(ctx, "p1", 5)
		var stockErr *apperr.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if stockErr.Available != 1 || stockErr.Name != "Widget" {
			t.Fatalf("unexpected error detail: %+v", stockErr)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		mock, ledger := newMockLedger(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs("missing", 1).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery(`SELECT name, stock FROM products`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := ledger.Reserve(ctx, "missing", 1)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("quantity below one rejected before touching the db", func(t *testing.T) {
		_, ledger := newMockLedger(t)

		_, err := ledger.Reserve(ctx, "p1", 0)
		var valErr *apperr.ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("increments and returns new stock", func(t *testing.T) {
		mock, ledger := newMockLedger(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs("p1", 2).
			WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(5))

		stock, err := ledger.Release(ctx, "p1", 2)
		if err != nil {
			t.Fatalf("release: %v", err)
		}
		if stock != 5 {
			t.Fatalf("stock = %d, want 5", stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		mock, ledger := newMockLedger(t)
		mock.ExpectQuery(`UPDATE products`).
			WithArgs("missing", 2).
			WillReturnError(pgx.ErrNoRows)

		_, err := ledger.Release(ctx, "missing", 2)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
