package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrOutOfStock occurs when a reservation exceeds the remaining stock.
	ErrOutOfStock = errors.New("out of stock")
)

// Product is a sellable item scoped to one storefront.
type Product struct {
	ID         string
	Storefront string
	Name       string
	UnitPrice  int64
	Stock      int
}

// Catalog defines the contract implemented by catalog backends (e.g. Postgres).
// Release undoes a prior Reserve; callers use it to compensate when a
// multi-item checkout fails partway.
type Catalog interface {
	List(ctx context.Context, storefront string) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Reserve(ctx context.Context, id string, quantity int) error
	Release(ctx context.Context, id string, quantity int) error
}
