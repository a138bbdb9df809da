package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swiftcart/authgate/internal/catalog"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/internal/notification"
)

// ErrEmptyCart indicates checkout was requested with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// Service exposes the per-user storefront operations behind the auth guard.
type Service struct {
	repo     Repository
	products catalog.Catalog
	users    identity.Repository
	notifier notification.Notifier
}

// NewService builds a storefront service instance.
func NewService(repo Repository, products catalog.Catalog, users identity.Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, products: products, users: users, notifier: notifier}
}

// Cart returns the user's cart.
func (s *Service) Cart(ctx context.Context, userID string) ([]CartItem, error) {
	return s.repo.GetCart(ctx, userID)
}

// UpdateCart replaces the user's cart after checking the products exist.
func (s *Service) UpdateCart(ctx context.Context, userID string, items []CartItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for product %s", item.ProductID)
		}
		if _, err := s.products.Get(ctx, item.ProductID); err != nil {
			return err
		}
	}
	return s.repo.SaveCart(ctx, userID, items)
}

// Orders lists the user's orders.
func (s *Service) Orders(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListOrders(ctx, userID)
}

// Checkout drains the cart into an order, reserving stock and pricing each
// item against the catalog at this moment. The cart is cleared only after the
// order is stored.
func (s *Service) Checkout(ctx context.Context, userID string) (Order, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Order{}, err
	}

	items, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	order := Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		Storefront: user.Storefront,
		Status:     StatusPlaced,
		CreatedAt:  time.Now().UTC(),
	}

	// Reservations already made are re-credited when a later step fails,
	// so an aborted checkout leaves stock untouched.
	release := func() {
		for _, it := range order.Items {
			_ = s.products.Release(ctx, it.ProductID, it.Quantity)
		}
	}

	for _, item := range items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			release()
			return Order{}, err
		}
		if err := s.products.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			release()
			return Order{}, err
		}
		order.Items = append(order.Items, OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice,
		})
		order.Total += product.UnitPrice * int64(item.Quantity)
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		release()
		return Order{}, err
	}
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return Order{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOrderReceipt,
			ToAddress:   user.Email,
			DisplayName: user.Name,
			Subject:     fmt.Sprintf("Order %s confirmed", order.ID),
			BodyText:    fmt.Sprintf("Your order of %d item(s) totalling %d was placed.", len(order.Items), order.Total),
		})
	}

	return order, nil
}
