package sessionkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrPartialRecord indicates a stored credential record with some but not all
// of the session fields. Such records are never returned as sessions.
var ErrPartialRecord = errors.New("credential record is incomplete")

// CredentialStore persists the session triple as one unit. Save writes the
// whole record atomically, Load restores it, Clear removes it. A store never
// holds a partial record by construction; one found on disk is reported, not
// repaired.
type CredentialStore interface {
	Save(session Session) error
	Load() (Session, bool, error)
	Clear() error
}

// FileStore keeps the credential record in a single JSON file, written with a
// temp-file rename so readers never observe a torn write.
type FileStore struct {
	path string
}

// NewFileStore builds a store at the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the session as one atomic record.
func (s *FileStore) Save(session Session) error {
	if !session.Valid() {
		return ErrPartialRecord
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode credential record: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write credential record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

// Load restores the record. A missing file is an absent session, not an error.
func (s *FileStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("read credential record: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, fmt.Errorf("decode credential record: %w", err)
	}
	if !session.Valid() {
		return Session{}, false, ErrPartialRecord
	}
	return session, true, nil
}

// Clear deletes the record. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential record: %w", err)
	}
	return nil
}

// MemoryStore is an in-process CredentialStore for tests and for sessions
// that should not outlive the process.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	present bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores the record.
func (s *MemoryStore) Save(session Session) error {
	if !session.Valid() {
		return ErrPartialRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
	return nil
}

// Load returns the stored record, if any.
func (s *MemoryStore) Load() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return Session{}, false, nil
	}
	return s.session, true, nil
}

// Clear removes the record.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	s.present = false
	return nil
}
