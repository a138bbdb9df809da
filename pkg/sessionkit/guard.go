package sessionkit

import (
	"context"
	"errors"

	"github.com/swiftcart/authgate/pkg/authapi"
)

// Guard is the authenticated-view pattern: check the session before fetching
// protected data, attaching the bearer token. An absent session redirects to
// login without issuing any fetch. A rejected credential clears the session;
// any other failure leaves it alone so transient errors never log the user
// out.
type Guard struct {
	client  *Client
	manager *Manager
}

// NewGuard builds a guard over the client and manager.
func NewGuard(client *Client, manager *Manager) *Guard {
	return &Guard{client: client, manager: manager}
}

// Session returns the current session, or ErrLoginRequired when absent.
func (g *Guard) Session() (Session, error) {
	if g.manager == nil {
		return Session{}, ErrNoManager
	}
	session, ok := g.manager.Current()
	if !ok {
		return Session{}, ErrLoginRequired
	}
	return session, nil
}

// Fetch retrieves a protected resource into out. The resource is keyed by
// the session's user server-side; the guard only supplies the credential.
func (g *Guard) Fetch(ctx context.Context, path string, out any) error {
	session, err := g.Session()
	if err != nil {
		return err
	}

	err = g.client.getJSON(ctx, path, session.Token, out)
	if err == nil {
		return nil
	}

	var flowErr *FlowError
	if errors.As(err, &flowErr) && flowErr.Code == authapi.CodeSessionExpired {
		if lerr := g.manager.Logout(); lerr != nil {
			return lerr
		}
		return ErrSessionExpired
	}
	return err
}
