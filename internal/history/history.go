// Package history persists per-(user, session) chat message logs as JSON
// files under {dir}/{user}/{session}.json. Histories are loaded lazily on
// first access and cached for the lifetime of the process.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"legalease/internal/domain"
)

// History is the ordered, append-only message log of one chat session.
// It is exclusively owned by its (user, session) key; no cross-session
// mutation happens.
type History struct {
	User     string
	Session  string
	Messages []domain.Message
}

// Append adds a message to the end of the log.
func (h *History) Append(role domain.Role, content string) {
	h.Messages = append(h.Messages, domain.Message{Role: role, Content: content})
}

// Store manages history files and the in-process cache. The cache is
// bounded by the number of sessions the user actually opens, so no
// eviction is needed.
type Store struct {
	mu    sync.Mutex
	dir   string
	cache map[string]*History
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string]*History)}
}

// GetOrCreate returns the cached history for (user, session), loading it
// from disk on first access. A missing or corrupted file yields an empty
// history.
func (s *Store) GetOrCreate(user, session string) *History {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cacheKey(user, session)
	if h, ok := s.cache[key]; ok {
		return h
	}
	h := &History{User: user, Session: session}
	if data, err := os.ReadFile(s.filePath(user, session)); err == nil {
		// Corrupted files are ignored rather than fatal; the session
		// starts fresh.
		_ = json.Unmarshal(data, &h.Messages)
	}
	s.cache[key] = h
	return h
}

// Persist writes the history to disk with an atomic replace so a crash
// mid-write never leaves a truncated record.
func (s *Store) Persist(h *History) error {
	path := s.filePath(h.User, h.Session)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	data, err := json.MarshalIndent(h.Messages, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Clear drops the cache entry and deletes the durable record for
// (user, session).
func (s *Store) Clear(user, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, cacheKey(user, session))
	if err := os.Remove(s.filePath(user, session)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// Drop removes all cached histories, e.g. on logout. Durable records are
// untouched.
func (s *Store) Drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*History)
}

func (s *Store) filePath(user, session string) string {
	return filepath.Join(s.dir, user, session+".json")
}

func cacheKey(user, session string) string {
	return user + "/" + session
}
