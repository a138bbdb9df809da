package storefront

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftcart/authgate/internal/catalog"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/internal/middleware"
)

// Handler exposes the guarded storefront endpoints. Every handler keys its
// data by the authenticated user set by the bearer middleware.
type Handler struct {
	svc      *Service
	products catalog.Catalog
	users    identity.Repository
}

// NewHandler builds the storefront handler.
func NewHandler(svc *Service, products catalog.Catalog, users identity.Repository) *Handler {
	return &Handler{svc: svc, products: products, users: users}
}

// Profile returns the authenticated user's account record.
func (h *Handler) Profile(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.JSON(fiber.Map{
		"user_id":        user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"role":           user.Role,
		"storefront":     user.Storefront,
		"email_verified": user.EmailVerified,
		"created_at":     user.CreatedAt,
	})
}

// ListProducts returns the catalog, optionally filtered by storefront.
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext(), c.Query("storefront"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"products": products})
}

// GetCart returns the user's cart.
func (h *Handler) GetCart(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	items, err := h.svc.Cart(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []CartItem{}
	}
	return c.JSON(fiber.Map{"items": items})
}

// PutCart replaces the user's cart.
func (h *Handler) PutCart(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	var req struct {
		Items []CartItem `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateCart(c.UserContext(), userID, req.Items); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"items": req.Items})
}

// ListOrders returns the user's orders.
func (h *Handler) ListOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	orders, err := h.svc.Orders(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if orders == nil {
		orders = []Order{}
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// Checkout turns the cart into an order.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	order, err := h.svc.Checkout(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, catalog.ErrOutOfStock), errors.Is(err, catalog.ErrNotFound):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(order)
}
