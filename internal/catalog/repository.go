package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Get(ctx context.Context, productID string) (Product, error)
	Create(ctx context.Context, p *Product) error
	SetStock(ctx context.Context, productID string, stock int) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `
		SELECT id, seller_id, name, price, stock, created_at, updated_at
		FROM products
		WHERE id=$1
	`, productID)
	if err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if p.Name == "" {
		return apperr.Validationf("product name is required")
	}
	if p.Price < 0 {
		return apperr.Validationf("price cannot be negative")
	}
	if p.Stock < 0 {
		return apperr.Validationf("stock cannot be negative")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, seller_id, name, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.SellerID, p.Name, p.Price, p.Stock)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// SetStock overwrites the stock counter, bypassing the ledger. Admin-only
// seeding and corrections; normal flows go through inventory.Ledger.
func (r *PostgresRepository) SetStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return apperr.Validationf("stock cannot be negative")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET stock=$2, updated_at=now() WHERE id=$1
	`, productID, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
	}
	return nil
}
