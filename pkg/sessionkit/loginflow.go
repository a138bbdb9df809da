package sessionkit

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/swiftcart/authgate/pkg/authapi"
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LoginForm carries the user's input to a login submission.
type LoginForm struct {
	Email          string
	Password       string
	ChallengeToken string
	RememberMe     bool
}

// Validate checks the form locally, returning one message per bad field.
func (f LoginForm) Validate() map[string]string {
	fields := make(map[string]string)
	if f.Email == "" {
		fields["email"] = "email is required"
	} else if !emailShape.MatchString(f.Email) {
		fields["email"] = "email is malformed"
	}
	if f.Password == "" {
		fields["password"] = "password is required"
	}
	if f.ChallengeToken == "" {
		fields["challenge"] = "complete the challenge first"
	}
	return fields
}

// PendingLogin is the transient state carried from a successful password
// check into OTP verification. It is never persisted: losing it means
// restarting the login.
type PendingLogin struct {
	UserID     string
	Email      string
	RememberMe bool
}

// LoginFlow submits credentials and produces a PendingLogin. It never touches
// the session; only OTP verification finalizes a login. At most one
// submission is in flight at a time.
type LoginFlow struct {
	mu         sync.Mutex
	client     *Client
	submitting bool
}

// NewLoginFlow builds a login flow over the client.
func NewLoginFlow(client *Client) *LoginFlow {
	return &LoginFlow{client: client}
}

// Submit validates the form locally and, if it passes, posts the credentials.
// Local failures return a *ValidationError without any network call. Server
// rejections return a *FlowError with a structured code, except
// email_unverified, which proceeds to the OTP step like a success: an
// unverified account completes verification there.
func (f *LoginFlow) Submit(ctx context.Context, form LoginForm) (PendingLogin, error) {
	if fields := form.Validate(); len(fields) > 0 {
		return PendingLogin{}, &ValidationError{Fields: fields}
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return PendingLogin{}, ErrSubmitInFlight
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	var resp authapi.LoginResponse
	err := f.client.postJSON(ctx, "/auth/login", authapi.LoginRequest{
		Email:          form.Email,
		Password:       form.Password,
		ChallengeToken: form.ChallengeToken,
	}, &resp)
	if err != nil {
		var flowErr *FlowError
		if errors.As(err, &flowErr) && flowErr.Code == authapi.CodeEmailUnverified && flowErr.UserID != "" {
			return PendingLogin{UserID: flowErr.UserID, Email: form.Email, RememberMe: form.RememberMe}, nil
		}
		return PendingLogin{}, err
	}
	if resp.UserID == "" {
		return PendingLogin{}, ErrProtocol
	}

	return PendingLogin{UserID: resp.UserID, Email: form.Email, RememberMe: form.RememberMe}, nil
}
