package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/auth"
	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/catalog"
)

// StockLedger is the slice of the inventory ledger the lifecycle needs.
type StockLedger interface {
	Reserve(ctx context.Context, productID string, qty int) (int, error)
	Release(ctx context.Context, productID string, qty int) (int, error)
}

// CatalogReader supplies the advisory pre-check reads. The authoritative
// availability check is the conditional update inside StockLedger.Reserve.
type CatalogReader interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
}

// CartClearer empties a user's cart once an order has been created from it.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

// EventPublisher hands lifecycle events to the messaging layer. Publishing is
// fire-and-forget: a failed publish never fails the order operation.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
	PublishOrderCancelled(ctx context.Context, o *Order) error
	PublishOrderConfirmationEmail(ctx context.Context, o *Order) error
}

// Service orchestrates order creation and the status lifecycle against the
// order repository, the cart store and the inventory ledger.
type Service struct {
	orders Repository
	carts  CartClearer
	ledger StockLedger
	stock  CatalogReader
	events EventPublisher
	logger *log.Logger
}

func NewService(orders Repository, carts CartClearer, ledger StockLedger, stock CatalogReader, events EventPublisher, logger *log.Logger) *Service {
	return &Service{
		orders: orders,
		carts:  carts,
		ledger: ledger,
		stock:  stock,
		events: events,
		logger: logger,
	}
}

// CreateInput is the client-supplied order request. The price breakdown is
// accepted as-is and not recomputed from the catalog; that trust boundary is
// deliberate and documented.
type CreateInput struct {
	Items           []LineInput     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

type LineInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Create runs the creation saga: pre-check every line, insert the order,
// reserve stock line by line, clear the cart. A reservation failure after the
// pre-check (a race with a concurrent purchase) rolls back every reservation
// already taken and deletes the order record, so creation is all-or-nothing.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.ErrEmptyOrder
	}
	if in.PaymentMethod == "" {
		return nil, apperr.Validationf("payment method is required")
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, apperr.Validationf("quantity must be at least 1")
		}
		if line.Price < 0 {
			return nil, apperr.Validationf("price cannot be negative")
		}
	}

	// Pre-check all lines before any mutation. This makes the common failure
	// (known-short stock) leave no trace at all; the reserve step below
	// still re-checks authoritatively.
	for _, line := range in.Items {
		p, err := s.stock.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < line.Quantity {
			return nil, &apperr.InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
		}
	}

	o := &Order{
		UserID:          userID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	for _, line := range in.Items {
		o.Items = append(o.Items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.reserveAll(ctx, o); err != nil {
		if delErr := s.orders.Delete(ctx, o.ID); delErr != nil {
			s.logger.Printf("order %s: discard after failed reservation: %v", o.ID, delErr)
		}
		return nil, err
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		// The order and its reservations are already durable; a stale cart
		// is an inconvenience, not a correctness problem.
		s.logger.Printf("order %s: clear cart for user %s: %v", o.ID, userID, err)
	}

	if s.events != nil {
		s.publish(ctx, o, "OrderCreated", s.events.PublishOrderCreated)
		s.publish(ctx, o, "OrderConfirmationEmail", s.events.PublishOrderConfirmationEmail)
	}

	return o, nil
}

// reserveAll reserves every line, releasing prior reservations on failure.
func (s *Service) reserveAll(ctx context.Context, o *Order) error {
	reserved := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		if _, err := s.ledger.Reserve(ctx, it.ProductID, it.Quantity); err != nil {
			for _, done := range reserved {
				if _, relErr := s.ledger.Release(ctx, done.ProductID, done.Quantity); relErr != nil {
					s.logger.Printf("order %s: compensating release of %d x %s: %v",
						o.ID, done.Quantity, done.ProductID, relErr)
				}
			}
			return err
		}
		reserved = append(reserved, it)
	}
	return nil
}

// Get enforces read access: the order's owner, sellers and admins only.
func (s *Service) Get(ctx context.Context, p auth.Principal, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if o.UserID != p.UserID && !p.Role.Elevated() {
		return nil, fmt.Errorf("view order: %w", apperr.ErrForbidden)
	}
	return o, nil
}

// ListMine returns the principal's own orders, newest first.
func (s *Service) ListMine(ctx context.Context, p auth.Principal) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListSummary is the seller/admin listing with aggregate figures. Revenue
// excludes cancelled orders.
type ListSummary struct {
	Orders       []Order `json:"orders"`
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ListAll returns every order for admins, and only orders containing the
// seller's products for sellers.
func (s *Service) ListAll(ctx context.Context, p auth.Principal) (*ListSummary, error) {
	var (
		orders []Order
		err    error
	)
	switch p.Role {
	case auth.RoleAdmin:
		orders, err = s.orders.ListAll(ctx)
	case auth.RoleSeller:
		orders, err = s.orders.ListBySeller(ctx, p.UserID)
	default:
		return nil, fmt.Errorf("list all orders: %w", apperr.ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	sum := &ListSummary{Orders: orders, TotalOrders: len(orders)}
	for _, o := range orders {
		if o.Status != StatusCancelled {
			sum.TotalRevenue += o.TotalPrice
		}
	}
	return sum, nil
}

// UpdateStatus is the privileged (seller/admin) transition path. It may move
// an order through any legal forward transition and may cancel; every change
// is guarded by the transition table and applied conditionally so concurrent
// updates cannot double-apply.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, orderID, status, cancelReason string) (*Order, error) {
	if !p.Role.Elevated() {
		return nil, fmt.Errorf("update status: %w", apperr.ErrForbidden)
	}

	next, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", o.Status, next, apperr.ErrInvalidTransition)
	}

	if next == StatusCancelled {
		if cancelReason == "" {
			cancelReason = "Cancelled by user"
		}
		return s.cancel(ctx, o, cancelReason)
	}

	applied, err := s.orders.SetStatus(ctx, orderID, o.Status, next)
	if err != nil {
		return nil, err
	}
	if !applied {
		// lost a race: the stored status moved on since we read it
		return nil, fmt.Errorf("%s -> %s: %w", o.Status, next, apperr.ErrInvalidTransition)
	}

	return s.reload(ctx, orderID)
}

// Cancel is the customer-facing path: only the order's owner may cancel, and
// only while the order is still Pending or Processing.
func (s *Service) Cancel(ctx context.Context, p auth.Principal, orderID, reason string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if o.UserID != p.UserID {
		return nil, fmt.Errorf("cancel order: %w", apperr.ErrForbidden)
	}
	if !o.Status.Cancellable() {
		return nil, fmt.Errorf("%s: %w", o.Status, apperr.ErrInvalidTransition)
	}

	if reason == "" {
		reason = "Cancelled by customer"
	}
	return s.cancel(ctx, o, reason)
}

// cancel applies the Cancelled transition and releases the order's stock.
// The conditional MarkCancelled is the exactly-once gate: whichever request
// wins the transition performs the release, every other attempt gets
// InvalidTransition and releases nothing.
func (s *Service) cancel(ctx context.Context, o *Order, reason string) (*Order, error) {
	applied, err := s.orders.MarkCancelled(ctx, o.ID, reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%s: %w", o.Status, apperr.ErrInvalidTransition)
	}

	for _, it := range o.Items {
		if _, err := s.ledger.Release(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, fmt.Errorf("restore stock for %s: %w", it.ProductID, err)
		}
	}

	updated, err := s.reload(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.publish(ctx, updated, "OrderCancelled", s.events.PublishOrderCancelled)
	}
	return updated, nil
}

// MarkPaid records payment info. It is orthogonal to the status machine and
// never transitions orderStatus.
func (s *Service) MarkPaid(ctx context.Context, p auth.Principal, orderID, paymentID, paymentStatus string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if o.UserID != p.UserID && !p.Role.Elevated() {
		return nil, fmt.Errorf("update payment: %w", apperr.ErrForbidden)
	}

	if err := s.orders.MarkPaid(ctx, orderID, paymentID, paymentStatus, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.reload(ctx, orderID)
}

func (s *Service) reload(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	return o, nil
}

func (s *Service) publish(ctx context.Context, o *Order, event string, fn func(context.Context, *Order) error) {
	if err := fn(ctx, o); err != nil {
		s.logger.Printf("order %s: publish %s: %v", o.ID, event, err)
	}
}
