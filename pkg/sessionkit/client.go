package sessionkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/swiftcart/authgate/pkg/authapi"
)

const defaultTimeout = 15 * time.Second

// Client talks to the authentication gateway. Every request carries the
// client's deadline, so a stalled call fails with a timeout instead of
// leaving a flow submitting forever.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a client for the given base URL (e.g. "https://api.example.com/api/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client, keeping its timeout.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "", out)
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &FlowError{Code: CodeTimeout, Message: "request timed out"}
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var body authapi.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Code == "" {
		// Unrecognized payloads pass through as an unclassified failure.
		return &FlowError{Code: "unknown", Message: resp.Status}
	}
	return &FlowError{Code: body.Error.Code, Message: body.Error.Message, UserID: body.Error.UserID}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
