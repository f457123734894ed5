package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	// Delete removes an order and its lines. Used only to compensate a
	// creation that failed partway through reservation.
	Delete(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Order, error)
	// SetStatus applies from -> to conditionally: it only writes when the
	// stored status still equals from, and reports whether it did.
	SetStatus(ctx context.Context, orderID string, from, to Status) (bool, error)
	// MarkCancelled flips a Pending or Processing order to Cancelled,
	// stamping cancelled_at and the reason. The condition makes the
	// transition first-writer-wins, so stock release runs at most once.
	MarkCancelled(ctx context.Context, orderID, reason string) (bool, error)
	MarkPaid(ctx context.Context, orderID, paymentID, paymentStatus string, paidAt time.Time) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id,
			shipping_address, shipping_city, shipping_postal, shipping_country, shipping_phone,
			payment_method, items_price, tax_price, shipping_price, total_price,
			order_status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.UserID,
		o.ShippingAddress.Address, o.ShippingAddress.City, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone,
		o.PaymentMethod, o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice,
		o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, o.ID, it.ProductID, it.Name, it.Price, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, orderID string) error {
	// order_items go via ON DELETE CASCADE
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id,
	shipping_address, shipping_city, shipping_postal, shipping_country, shipping_phone,
	payment_method, items_price, tax_price, shipping_price, total_price,
	order_status, payment_id, payment_status, paid_at,
	cancel_reason, delivered_at, cancelled_at, created_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var (
		o             Order
		paymentID     sql.NullString
		paymentStatus sql.NullString
		paidAt        sql.NullTime
		deliveredAt   sql.NullTime
		cancelledAt   sql.NullTime
	)
	err := row.Scan(&o.ID, &o.UserID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.PaymentMethod, &o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.Status, &paymentID, &paymentStatus, &paidAt,
		&o.CancelReason, &deliveredAt, &cancelledAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid || paymentStatus.Valid {
		o.PaymentInfo = &PaymentInfo{ID: paymentID.String, Status: paymentStatus.String}
		if paidAt.Valid {
			t := paidAt.Time
			o.PaymentInfo.PaidAt = &t
		}
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		o.DeliveredAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		o.CancelledAt = &t
	}
	return &o, nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, quantity
         FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// ListBySeller returns orders that contain at least one of the seller's
// products.
func (r *repo) ListBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders o
		 WHERE EXISTS (
			SELECT 1 FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = o.id AND p.seller_id = $1
		 )
		 ORDER BY created_at DESC`,
		sellerID)
}

func (r *repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repo) SetStatus(ctx context.Context, orderID string, from, to Status) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if to == StatusDelivered {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders SET order_status = $3, delivered_at = NOW()
			WHERE id = $1 AND order_status = $2`,
			orderID, from, to)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders SET order_status = $3
			WHERE id = $1 AND order_status = $2`,
			orderID, from, to)
	}
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *repo) MarkCancelled(ctx context.Context, orderID, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET order_status = $2, cancel_reason = $3, cancelled_at = NOW()
		WHERE id = $1 AND order_status IN ($4, $5)`,
		orderID, StatusCancelled, reason, StatusPending, StatusProcessing)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *repo) MarkPaid(ctx context.Context, orderID, paymentID, paymentStatus string, paidAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_id = $2, payment_status = $3, paid_at = $4
		WHERE id = $1`,
		orderID, paymentID, paymentStatus, paidAt)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}
