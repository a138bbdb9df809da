package storefront

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	carts  map[string][]CartItem
	orders map[string][]Order
}

// NewMemoryRepository builds an in-memory storefront store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		carts:  make(map[string][]CartItem),
		orders: make(map[string][]Order),
	}
}

func (r *memoryRepository) SaveCart(_ context.Context, userID string, items []CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = append([]CartItem(nil), items...)
	return nil
}

func (r *memoryRepository) GetCart(_ context.Context, userID string) ([]CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CartItem(nil), r.carts[userID]...), nil
}

func (r *memoryRepository) ClearCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func (r *memoryRepository) CreateOrder(_ context.Context, order Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.UserID] = append(r.orders[order.UserID], order)
	return nil
}

func (r *memoryRepository) ListOrders(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Order(nil), r.orders[userID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
