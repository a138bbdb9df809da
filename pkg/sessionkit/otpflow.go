package sessionkit

import (
	"context"
	"errors"
	"sync"

	"github.com/swiftcart/authgate/pkg/authapi"
)

// Destination is the post-login redirect target, branched on role. This is
// client-side convenience only; authorization is enforced server-side.
type Destination string

const (
	DestinationHome  Destination = "/"
	DestinationAdmin Destination = "/admin"
)

// OTPFlow finalizes a pending login with a one-time code. It requires the
// PendingLogin carried from the login flow; without it the flow is a
// deliberate dead end, not something to recover from.
type OTPFlow struct {
	mu         sync.Mutex
	client     *Client
	manager    *Manager
	pending    *PendingLogin
	submitting bool
}

// NewOTPFlow builds the flow. pending may be nil when the transient state was
// lost; Submit then fails terminally without a network call.
func NewOTPFlow(client *Client, manager *Manager, pending *PendingLogin) *OTPFlow {
	return &OTPFlow{client: client, manager: manager, pending: pending}
}

// Expired reports whether the flow has no usable pending login.
func (f *OTPFlow) Expired() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending == nil || f.pending.UserID == "" || f.pending.Email == ""
}

// ValidateCode checks the code shape locally: exactly six ASCII digits.
func ValidateCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Submit verifies the code and, on success, finalizes the session exactly
// once and returns the role-branched redirect destination. A wrong code keeps
// the pending state for re-entry; an expired code discards it, and the caller
// must return to the login flow.
func (f *OTPFlow) Submit(ctx context.Context, code string) (Destination, error) {
	if f.Expired() {
		return "", ErrNoPendingLogin
	}
	if f.manager == nil {
		// Wiring error: a successful verification could never be finalized.
		return "", ErrNoManager
	}
	if !ValidateCode(code) {
		return "", &ValidationError{Fields: map[string]string{"code": "enter the 6-digit code"}}
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	if f.pending == nil {
		f.mu.Unlock()
		return "", ErrNoPendingLogin
	}
	f.submitting = true
	pending := *f.pending
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	var resp authapi.VerifyResponse
	err := f.client.postJSON(ctx, "/auth/verify-otp", authapi.VerifyRequest{
		UserID: pending.UserID,
		Code:   code,
	}, &resp)
	if err != nil {
		var flowErr *FlowError
		if errors.As(err, &flowErr) && flowErr.Code == authapi.CodeOTPExpired {
			// The pending attempt cannot be retried; force a fresh login.
			f.mu.Lock()
			f.pending = nil
			f.mu.Unlock()
		}
		return "", err
	}

	session := Session{Token: resp.Token, UserID: resp.UserID, Role: resp.Role}
	if !session.Valid() {
		return "", ErrProtocol
	}

	if err := f.manager.Login(session, pending.RememberMe); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()

	if session.Role == RoleAdmin {
		return DestinationAdmin, nil
	}
	return DestinationHome, nil
}
