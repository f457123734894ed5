package cart

import (
	"context"
	"fmt"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/catalog"
)

// ProductReader is the slice of the catalog the cart needs: reads only.
// Cart operations never mutate stock; reservation happens at order creation.
type ProductReader interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
}

// Service is the cart aggregate: one mutable cart per user, at most one line
// per product, totals recomputed on every mutation.
type Service struct {
	carts    Repository
	products ProductReader
}

func NewService(carts Repository, products ProductReader) *Service {
	return &Service{carts: carts, products: products}
}

// Get returns the user's cart, materializing an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		c = &Cart{UserID: userID, Items: []Item{}}
		if err := s.carts.UpsertCart(ctx, c); err != nil {
			return nil, fmt.Errorf("create cart: %w", err)
		}
	}
	return c, nil
}

// AddLine adds qty of a product, or bumps the existing line's quantity.
// The cumulative quantity is checked against current catalog stock; a failed
// check leaves the cart untouched.
func (s *Service) AddLine(ctx context.Context, userID, productID string, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := qty
	idx := -1
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			idx = i
			requested += c.Items[i].Quantity
			break
		}
	}
	if requested > p.Stock {
		return nil, &apperr.InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
	}

	if idx >= 0 {
		c.Items[idx].Quantity = requested
	} else {
		c.Items = append(c.Items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
			Stock:     p.Stock,
		})
	}

	c.RecalcTotals()
	if err := s.carts.UpsertCart(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// SetLineQuantity replaces a line's quantity after re-checking catalog stock.
func (s *Service) SetLineQuantity(ctx context.Context, userID, itemID string, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("cart: %w", apperr.ErrNotFound)
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("item not found in cart: %w", apperr.ErrNotFound)
	}

	p, err := s.products.Get(ctx, c.Items[idx].ProductID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, &apperr.InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
	}

	c.Items[idx].Quantity = qty
	c.RecalcTotals()
	if err := s.carts.UpsertCart(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// RemoveLine drops a line. Removing an absent line (or from an absent cart)
// is a no-op, not an error.
func (s *Service) RemoveLine(ctx context.Context, userID, itemID string) (*Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	c.RecalcTotals()
	if err := s.carts.UpsertCart(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}

// Clear empties the cart. Clearing an absent cart succeeds.
func (s *Service) Clear(ctx context.Context, userID string) (*Cart, error) {
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return s.Get(ctx, userID)
}
