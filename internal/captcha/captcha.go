// Package captcha verifies bot-challenge tokens submitted with login requests.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrRejected indicates the provider did not accept the challenge token.
var ErrRejected = errors.New("challenge token rejected")

// Verifier checks a challenge token issued by the storefront's widget.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// HTTPVerifier posts tokens to a provider's siteverify endpoint.
type HTTPVerifier struct {
	verifyURL string
	secret    string
	client    *http.Client
}

// NewHTTPVerifier builds a verifier against the given provider endpoint.
func NewHTTPVerifier(verifyURL, secret string) *HTTPVerifier {
	return &HTTPVerifier{
		verifyURL: verifyURL,
		secret:    secret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify submits the token and secret as form data and requires success=true.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrRejected
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha: verify request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("captcha: decode response: %w", err)
	}
	if !body.Success {
		return ErrRejected
	}
	return nil
}

// Static accepts every non-empty token. For development and tests only.
type Static struct{}

// Verify rejects only empty tokens.
func (Static) Verify(_ context.Context, token string) error {
	if token == "" {
		return ErrRejected
	}
	return nil
}
