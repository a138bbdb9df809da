// Package authapi defines the wire contract between the storefront clients
// and the authentication gateway. Both the server handlers and the session
// SDK marshal these shapes, so the contract lives in one place.
package authapi

// Error codes returned in ErrorBody. Clients switch on the code, never on
// message prose.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountLocked      = "account_locked"
	CodeEmailUnverified    = "email_unverified"
	CodeChallengeRejected  = "challenge_rejected"
	CodeRateLimited        = "rate_limited"
	CodeOTPInvalid         = "otp_invalid"
	CodeOTPExpired         = "otp_expired"
	CodeSessionExpired     = "session_expired"
)

// LoginRequest starts a login attempt. No token is issued by this call.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	ChallengeToken string `json:"challenge_token"`
}

// LoginResponse names the user whose OTP verification may proceed.
type LoginResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}

// VerifyRequest finalizes a pending login with a one-time code.
type VerifyRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// VerifyResponse carries the complete session triple. All three of Token,
// UserID and Role are required; a partial response is a protocol violation.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

// RegisterRequest creates a storefront account.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Storefront string `json:"storefront"`
}

// ErrorDetail is the structured error payload.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// ErrorBody wraps every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}
