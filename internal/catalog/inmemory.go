package catalog

import (
	"context"
	"sync"
)

type inMemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewInMemory creates a concurrency-safe in-memory catalog useful for unit tests.
func NewInMemory() Catalog {
	return &inMemoryCatalog{products: make(map[string]Product)}
}

func (c *inMemoryCatalog) List(_ context.Context, storefront string) ([]Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Product
	for _, p := range c.products {
		if storefront == "" || p.Storefront == storefront {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *inMemoryCatalog) Get(_ context.Context, id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (c *inMemoryCatalog) Reserve(_ context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return ErrOutOfStock
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return ErrNotFound
	}
	if p.Stock < quantity {
		return ErrOutOfStock
	}
	p.Stock -= quantity
	c.products[id] = p
	return nil
}

func (c *inMemoryCatalog) Release(_ context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock += quantity
	c.products[id] = p
	return nil
}
