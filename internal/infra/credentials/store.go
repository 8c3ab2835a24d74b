package credentials

import (
	"errors"
	"strings"
	"sync"
)

// Store holds the Gemini API key for the process. Resolution order is
// explicit: a key set at runtime through the selection flow wins over the
// value injected at construction (typically GEMINI_API_KEY). The store never
// reads the environment itself.
type Store struct {
	mu  sync.RWMutex
	key string
}

// NewStore initializes the store with an optional seed key.
func NewStore(seed string) *Store {
	return &Store{key: strings.TrimSpace(seed)}
}

// Has reports whether a usable API key is configured.
func (s *Store) Has() bool {
	return s.APIKey() != ""
}

// APIKey returns the current key, or an empty string when none is configured.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Set replaces the current key. Empty keys are rejected; use Clear to drop
// the credential.
func (s *Store) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("credentials: api key is required")
	}
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return nil
}

// Clear drops the current key, returning the store to the "no credential"
// state so the selection flow can run again.
func (s *Store) Clear() {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()
}
