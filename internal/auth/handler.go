package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/pkg/authapi"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	ids *identity.Service
	svc *Service
}

// NewHandler builds the auth handler.
func NewHandler(ids *identity.Service, svc *Service) *Handler {
	return &Handler{ids: ids, svc: svc}
}

// Register creates a storefront account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req authapi.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Storefront: req.Storefront,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user_id":    user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"storefront": user.Storefront,
	})
}

// Login runs the password check and starts a pending login attempt.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req authapi.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.StartLogin(c.UserContext(), StartInput{
		Email:          req.Email,
		Password:       req.Password,
		ChallengeToken: req.ChallengeToken,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(authapi.LoginResponse{Success: true, UserID: res.UserID})
}

// VerifyOTP finalizes a pending login and returns the session triple.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req authapi.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" || len(req.Code) != 6 {
		return writeAuthError(c, otpInvalid())
	}
	res, err := h.svc.VerifyOTP(c.UserContext(), req.UserID, req.Code)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(authapi.VerifyResponse{
		Success: true,
		Token:   res.Token,
		UserID:  res.UserID,
		Role:    res.Role,
	})
}

// Logout acknowledges a logout. The bearer token is short-lived and the
// client discards its credential record; nothing is revoked server-side.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

func writeAuthError(c *fiber.Ctx, err error) error {
	var authErr *Error
	if !errors.As(err, &authErr) {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	status := http.StatusUnauthorized
	switch authErr.Code {
	case authapi.CodeChallengeRejected:
		status = http.StatusBadRequest
	case authapi.CodeAccountLocked, authapi.CodeEmailUnverified:
		status = http.StatusForbidden
	case authapi.CodeRateLimited:
		status = http.StatusTooManyRequests
	case authapi.CodeOTPExpired:
		status = http.StatusGone
	}
	return c.Status(status).JSON(authapi.ErrorBody{Error: authapi.ErrorDetail{
		Code:    authErr.Code,
		Message: authErr.Message,
		UserID:  authErr.UserID,
	}})
}
