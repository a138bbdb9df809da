package sessionkit

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/swiftcart/authgate/pkg/authapi"
)

func TestGuardEmptySessionRedirectsWithoutFetching(t *testing.T) {
	client, stub := newStubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})
	guard := NewGuard(client, NewManager(NewMemoryStore()))

	var out map[string]any
	if err := guard.Fetch(context.Background(), "/orders", &out); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("empty session must issue zero fetches: %v", stub.calls)
	}
}

func TestGuardAttachesBearerToken(t *testing.T) {
	client, _ := newStubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("expected bearer token, got %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": []any{}})
	})
	manager := NewManager(NewMemoryStore())
	if err := manager.Login(Session{Token: "tok", UserID: "u1", Role: RoleCustomer}, false); err != nil {
		t.Fatalf("login: %v", err)
	}
	guard := NewGuard(client, manager)

	var out map[string]any
	if err := guard.Fetch(context.Background(), "/orders", &out); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, ok := out["orders"]; !ok {
		t.Fatalf("expected decoded payload, got %v", out)
	}
}

func TestGuardExpiredCredentialClearsSession(t *testing.T) {
	client, _ := newStubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeCode(w, http.StatusUnauthorized, authapi.CodeSessionExpired, "invalid or expired token")
	})
	manager := NewManager(NewMemoryStore())
	if err := manager.Login(Session{Token: "stale", UserID: "u1", Role: RoleCustomer}, true); err != nil {
		t.Fatalf("login: %v", err)
	}
	guard := NewGuard(client, manager)

	var out map[string]any
	if err := guard.Fetch(context.Background(), "/orders", &out); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := manager.Current(); ok {
		t.Fatalf("expired credential must clear the session")
	}
}

func TestGuardTransientFailureKeepsSession(t *testing.T) {
	client, _ := newStubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream hiccup", http.StatusBadGateway)
	})
	manager := NewManager(NewMemoryStore())
	want := Session{Token: "tok", UserID: "u1", Role: RoleCustomer}
	if err := manager.Login(want, true); err != nil {
		t.Fatalf("login: %v", err)
	}
	guard := NewGuard(client, manager)

	var out map[string]any
	err := guard.Fetch(context.Background(), "/orders", &out)
	if err == nil || errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected a non-expiry failure, got %v", err)
	}
	if session, ok := manager.Current(); !ok || session != want {
		t.Fatalf("transient failure must not log the user out")
	}
}

func TestGuardWithoutManagerIsConfigurationError(t *testing.T) {
	client, stub := newStubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})
	guard := NewGuard(client, nil)

	var out map[string]any
	if err := guard.Fetch(context.Background(), "/orders", &out); !errors.Is(err, ErrNoManager) {
		t.Fatalf("expected ErrNoManager, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("misconfigured guard must not fetch: %v", stub.calls)
	}
}
