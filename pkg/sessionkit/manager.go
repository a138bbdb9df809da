package sessionkit

import (
	"slices"
	"sync"
)

// Manager owns the in-memory session and mirrors it into the credential
// store. It is the single mutation point: views read through Current and
// subscribe for changes, they never touch the store directly.
type Manager struct {
	mu        sync.RWMutex
	store     CredentialStore
	current   Session
	present   bool
	listeners []func(Session, bool)
}

// NewManager builds a manager over the given store and restores any
// persisted session. No liveness check is made against the restored token;
// an expired one surfaces on the first guarded fetch. A corrupt or partial
// record restores as an absent session.
func NewManager(store CredentialStore) *Manager {
	m := &Manager{store: store}
	if store != nil {
		if session, ok, err := store.Load(); err == nil && ok {
			m.current = session
			m.present = true
		}
	}
	return m
}

// Current returns a copy of the session and whether one is present.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.present
}

// Login unconditionally replaces the session. With remember set the triple is
// persisted to the store; otherwise the session is memory-only and any
// previously persisted record is removed, so a restart restores nothing.
func (m *Manager) Login(session Session, remember bool) error {
	if !session.Valid() {
		return ErrPartialRecord
	}

	m.mu.Lock()
	if m.store != nil {
		var err error
		if remember {
			err = m.store.Save(session)
		} else {
			err = m.store.Clear()
		}
		if err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.current = session
	m.present = true
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(session, true)
	}
	return nil
}

// Logout clears the session and the persisted record. Calling it when
// already logged out is a no-op.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	wasPresent := m.present
	m.current = Session{}
	m.present = false
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	if wasPresent {
		for _, fn := range listeners {
			fn(Session{}, false)
		}
	}
	return nil
}

// Subscribe registers a listener invoked after every session change.
func (m *Manager) Subscribe(fn func(session Session, present bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
