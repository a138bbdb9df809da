package storefront

import "time"

// Order statuses.
const (
	StatusPlaced = "placed"
)

// CartItem is a product reference held in a user's cart. Carts are opaque to
// the auth layer; only checkout interprets them.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderItem is a cart item frozen at checkout with its price at that moment.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Order is a completed checkout.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Storefront string      `json:"storefront"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
	Total      int64       `json:"total"`
	CreatedAt  time.Time   `json:"created_at"`
}
