// Package otp manages pending login attempts: short-lived one-time codes
// issued after a successful password check and consumed by verification.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	// ErrNotFound indicates there is no pending attempt for the user, either
	// because none was issued or because it expired.
	ErrNotFound = errors.New("pending login not found")

	// ErrTooManyAttempts indicates the verification attempt budget is spent.
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// PendingLogin is the transient record between password check and OTP
// verification. It is stored as a single unit and never survives its TTL.
type PendingLogin struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists pending login attempts keyed by user. Put replaces any
// existing attempt for the same user.
type Store interface {
	Put(ctx context.Context, pending PendingLogin) error
	Get(ctx context.Context, userID string) (PendingLogin, error)
	IncrementAttempts(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID string) error
}

// GenerateCode returns a uniform random numeric code of CodeLength digits.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}
