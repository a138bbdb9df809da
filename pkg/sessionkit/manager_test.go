package sessionkit

import (
	"path/filepath"
	"testing"
)

func TestLoginThenReadReturnsExactSession(t *testing.T) {
	m := NewManager(NewMemoryStore())

	want := Session{Token: "tok", UserID: "u1", Role: RoleCustomer}
	if err := m.Login(want, true); err != nil {
		t.Fatalf("login: %v", err)
	}

	got, ok := m.Current()
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v (present=%v)", want, got, ok)
	}
}

func TestLoginOverwritesNeverMerges(t *testing.T) {
	m := NewManager(NewMemoryStore())

	if err := m.Login(Session{Token: "old", UserID: "u1", Role: RoleAdmin}, true); err != nil {
		t.Fatalf("first login: %v", err)
	}
	want := Session{Token: "new", UserID: "u2", Role: RoleCustomer}
	if err := m.Login(want, true); err != nil {
		t.Fatalf("second login: %v", err)
	}

	got, _ := m.Current()
	if got != want {
		t.Fatalf("expected clean overwrite %+v, got %+v", want, got)
	}
}

func TestLoginRejectsPartialSession(t *testing.T) {
	m := NewManager(NewMemoryStore())

	if err := m.Login(Session{Token: "tok"}, true); err == nil {
		t.Fatalf("expected partial session to be rejected")
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("failed login must not populate the session")
	}
}

func TestLogoutClearsEverythingAndIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	if err := m.Login(Session{Token: "tok", UserID: "u1", Role: RoleCustomer}, true); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("session should be empty after logout")
	}
	if _, present, _ := store.Load(); present {
		t.Fatalf("store should be empty after logout")
	}

	// Second logout has the same end state.
	if err := m.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("session should stay empty")
	}
}

func TestReloadWithoutRememberYieldsEmptySession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	if err := m.Login(Session{Token: "tok", UserID: "u1", Role: RoleCustomer}, false); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, ok := m.Current(); !ok {
		t.Fatalf("in-memory session should be live before reload")
	}

	reloaded := NewManager(store)
	if _, ok := reloaded.Current(); ok {
		t.Fatalf("reload must yield an empty session when remember was false")
	}
}

func TestReloadWithRememberRestoresIdenticalSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	want := Session{Token: "tok", UserID: "u1", Role: RoleAdmin}
	if err := m.Login(want, true); err != nil {
		t.Fatalf("login: %v", err)
	}

	reloaded := NewManager(store)
	got, ok := reloaded.Current()
	if !ok || got != want {
		t.Fatalf("expected restored session %+v, got %+v (present=%v)", want, got, ok)
	}
}

func TestNotRememberedLoginDropsPriorPersistedSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	if err := m.Login(Session{Token: "old", UserID: "u1", Role: RoleCustomer}, true); err != nil {
		t.Fatalf("remembered login: %v", err)
	}
	if err := m.Login(Session{Token: "new", UserID: "u2", Role: RoleCustomer}, false); err != nil {
		t.Fatalf("memory-only login: %v", err)
	}

	// The store must not resurrect the earlier remembered session.
	reloaded := NewManager(store)
	if _, ok := reloaded.Current(); ok {
		t.Fatalf("reload should be empty, not the stale remembered session")
	}
}

func TestSubscribersObserveChanges(t *testing.T) {
	m := NewManager(NewMemoryStore())

	var events []bool
	m.Subscribe(func(_ Session, present bool) {
		events = append(events, present)
	})

	if err := m.Login(Session{Token: "tok", UserID: "u1", Role: RoleCustomer}, false); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := m.Logout(); err != nil { // no event for a no-op logout
		t.Fatalf("second logout: %v", err)
	}

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestManagerWithFileStoreSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	m := NewManager(NewFileStore(path))

	want := Session{Token: "tok", UserID: "u1", Role: RoleCustomer}
	if err := m.Login(want, true); err != nil {
		t.Fatalf("login: %v", err)
	}

	reloaded := NewManager(NewFileStore(path))
	got, ok := reloaded.Current()
	if !ok || got != want {
		t.Fatalf("expected %+v restored from disk, got %+v (present=%v)", want, got, ok)
	}
}
