package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"legalease/internal/domain"
)

func TestGetOrCreateStartsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	h := s.GetOrCreate("alice", "s1")
	require.Equal(t, "alice", h.User)
	require.Equal(t, "s1", h.Session)
	require.Empty(t, h.Messages)
}

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	h := s.GetOrCreate("alice", "s1")
	h.Append(domain.RoleHuman, "What is the notice period?")
	h.Append(domain.RoleAI, "Sixty days before the lease ends.")
	require.NoError(t, s.Persist(h))

	// A fresh store reads the record back from disk.
	s2 := NewStore(dir)
	h2 := s2.GetOrCreate("alice", "s1")
	require.Len(t, h2.Messages, 2)
	require.Equal(t, domain.RoleHuman, h2.Messages[0].Role)
	require.Equal(t, "What is the notice period?", h2.Messages[0].Content)
	require.Equal(t, domain.RoleAI, h2.Messages[1].Role)
}

func TestPersistUsesTypeAndContentKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	h := s.GetOrCreate("bob", "s1")
	h.Append(domain.RoleHuman, "hello")
	require.NoError(t, s.Persist(h))

	data, err := os.ReadFile(filepath.Join(dir, "bob", "s1.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"type": "human"`)
	require.Contains(t, string(data), `"content": "hello"`)
}

func TestGetOrCreateCaches(t *testing.T) {
	s := NewStore(t.TempDir())
	h1 := s.GetOrCreate("alice", "s1")
	h1.Append(domain.RoleHuman, "hi")
	h2 := s.GetOrCreate("alice", "s1")
	require.Same(t, h1, h2)
	require.Len(t, h2.Messages, 1)
}

func TestCorruptFileYieldsFreshHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "alice"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "s1.json"), []byte("{not json"), 0o644))

	s := NewStore(dir)
	h := s.GetOrCreate("alice", "s1")
	require.Empty(t, h.Messages)
}

func TestClearRemovesCacheAndFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	h := s.GetOrCreate("alice", "s1")
	h.Append(domain.RoleHuman, "hi")
	require.NoError(t, s.Persist(h))
	require.NoError(t, s.Clear("alice", "s1"))

	_, err := os.Stat(filepath.Join(dir, "alice", "s1.json"))
	require.True(t, os.IsNotExist(err))
	require.Empty(t, s.GetOrCreate("alice", "s1").Messages)
}

func TestClearMissingFileIsFine(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Clear("nobody", "nothing"))
}

func TestDropKeepsDurableRecords(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	h := s.GetOrCreate("alice", "s1")
	h.Append(domain.RoleHuman, "hi")
	require.NoError(t, s.Persist(h))

	s.Drop()
	h2 := s.GetOrCreate("alice", "s1")
	require.NotSame(t, h, h2)
	require.Len(t, h2.Messages, 1)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(t.TempDir())
	h1 := s.GetOrCreate("alice", "s1")
	h1.Append(domain.RoleHuman, "one")
	h2 := s.GetOrCreate("alice", "s2")
	require.Empty(t, h2.Messages)
	h3 := s.GetOrCreate("bob", "s1")
	require.Empty(t, h3.Messages)
}
