package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCatalog implements Catalog using PostgreSQL.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresCatalog builds a Postgres-backed catalog.
func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// List returns the products for a storefront, or all products when the
// storefront filter is empty.
func (c *PostgresCatalog) List(ctx context.Context, storefront string) ([]Product, error) {
	rows, err := c.db.Query(ctx, `SELECT id, storefront, name, unit_price, stock FROM products
        WHERE $1 = '' OR storefront = $1 ORDER BY name`, storefront)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var id uuid.UUID
		var p Product
		if err := rows.Scan(&id, &p.Storefront, &p.Name, &p.UnitPrice, &p.Stock); err != nil {
			return nil, err
		}
		p.ID = id.String()
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches one product.
func (c *PostgresCatalog) Get(ctx context.Context, id string) (Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return Product{}, ErrNotFound
	}
	row := c.db.QueryRow(ctx, `SELECT id, storefront, name, unit_price, stock FROM products WHERE id = $1`, productID)
	var pid uuid.UUID
	var p Product
	if err := row.Scan(&pid, &p.Storefront, &p.Name, &p.UnitPrice, &p.Stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	p.ID = pid.String()
	return p, nil
}

// Reserve atomically decrements stock, failing when fewer than quantity remain.
func (c *PostgresCatalog) Reserve(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return ErrOutOfStock
	}
	productID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := c.db.Exec(ctx, `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`, quantity, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, gerr := c.Get(ctx, id); gerr != nil {
			return gerr
		}
		return ErrOutOfStock
	}
	return nil
}

// Release re-credits stock reserved by an earlier Reserve.
func (c *PostgresCatalog) Release(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	productID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := c.db.Exec(ctx, `UPDATE products SET stock = stock + $1 WHERE id = $2`, quantity, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
