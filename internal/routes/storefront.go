package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/swiftcart/authgate/internal/storefront"
)

// RegisterStorefrontRoutes wires the guarded per-user storefront endpoints.
// idem, when set, makes the checkout POST idempotent.
func RegisterStorefrontRoutes(r fiber.Router, h *storefront.Handler, idem fiber.Handler) {
	r.Get("/me", h.Profile)
	r.Get("/orders", h.ListOrders)
	r.Get("/cart", h.GetCart)
	r.Put("/cart", h.PutCart)
	if idem != nil {
		r.Post("/cart/checkout", idem, h.Checkout)
	} else {
		r.Post("/cart/checkout", h.Checkout)
	}
}
