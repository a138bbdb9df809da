package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists carts and orders per user.
type Repository interface {
	SaveCart(ctx context.Context, userID string, items []CartItem) error
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	ClearCart(ctx context.Context, userID string) error
	CreateOrder(ctx context.Context, order Order) error
	ListOrders(ctx context.Context, userID string) ([]Order, error)
}

// PostgresRepository implements Repository using PostgreSQL. Carts and order
// items are stored as JSON documents; nothing queries inside them.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed storefront repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveCart replaces the user's cart in a single upsert.
func (r *PostgresRepository) SaveCart(ctx context.Context, userID string, items []CartItem) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET items = $2, updated_at = $3`,
		uid, payload, time.Now().UTC())
	return err
}

// GetCart fetches the user's cart. A missing row is an empty cart; any other
// failure propagates.
func (r *PostgresRepository) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `SELECT items FROM carts WHERE user_id = $1`, uid)
	return decodeCartRow(row)
}

func decodeCartRow(row pgx.Row) ([]CartItem, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var items []CartItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearCart removes the user's cart row.
func (r *PostgresRepository) ClearCart(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, uid)
	return err
}

// CreateOrder inserts a completed checkout.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order Order) error {
	orderID, err := uuid.Parse(order.ID)
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(order.UserID)
	if err != nil {
		return err
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO orders (id, user_id, storefront, status, items, total, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		orderID, uid, order.Storefront, order.Status, items, order.Total, order.CreatedAt.UTC())
	return err
}

// ListOrders returns the user's orders, newest first.
func (r *PostgresRepository) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, storefront, status, items, total, created_at
        FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			id        uuid.UUID
			ownerID   uuid.UUID
			payload   []byte
			createdAt time.Time
			order     Order
		)
		if err := rows.Scan(&id, &ownerID, &order.Storefront, &order.Status, &payload, &order.Total, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &order.Items); err != nil {
			return nil, err
		}
		order.ID = id.String()
		order.UserID = ownerID.String()
		order.CreatedAt = createdAt.UTC()
		out = append(out, order)
	}
	return out, rows.Err()
}
