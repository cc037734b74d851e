// Package auth manages the flat username-to-password credential store.
// Passwords are stored in plaintext; this mirrors a prototype-grade design
// and is not hardened for production use.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

var (
	ErrEmptyCredentials = errors.New("username and password cannot be empty")
	ErrUserExists       = errors.New("username already exists")
)

// Store reads and writes the users file. A missing or corrupted file is
// treated as an empty user set.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Add registers a new user. Empty credentials and duplicate usernames are
// rejected.
func (s *Store) Add(username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.load()
	if _, exists := users[username]; exists {
		return ErrUserExists
	}
	users[username] = password
	return s.save(users)
}

// Verify reports whether the given credentials match a stored user.
func (s *Store) Verify(username, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.load()
	stored, ok := users[username]
	return ok && stored == password
}

func (s *Store) load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var users map[string]string
	if err := json.Unmarshal(data, &users); err != nil {
		return map[string]string{}
	}
	return users
}

func (s *Store) save(users map[string]string) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
