package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"legalease/internal/domain"
	"legalease/internal/history"
	"legalease/internal/service"
	"legalease/internal/translate"
)

type stubAssistant struct{}

func (stubAssistant) Ingest(context.Context, []service.Document) (*domain.IngestionBatch, []string, error) {
	return &domain.IngestionBatch{DocNames: []string{"a.txt"}}, nil, nil
}

func (stubAssistant) Ask(context.Context, string, string, string, string) (service.Answer, error) {
	return service.Answer{Text: "answer"}, nil
}

type stubAuth struct {
	users map[string]string
}

func (s *stubAuth) Add(u, p string) error {
	if u == "" || p == "" {
		return errors.New("empty")
	}
	s.users[u] = p
	return nil
}

func (s *stubAuth) Verify(u, p string) bool { return s.users[u] == p }

func newTestModel(t *testing.T) Model {
	t.Helper()
	histories := history.NewStore(t.TempDir())
	auth := &stubAuth{users: map[string]string{"alice": "pw"}}
	return New(stubAssistant{}, auth, histories, translate.Languages, nil)
}

func TestLoginSuccess(t *testing.T) {
	m := newTestModel(t)
	m.username.SetValue("alice")
	m.password.SetValue("pw")
	next, _ := m.submitCredentials(false)
	got := next.(Model)
	require.Equal(t, stateChat, got.state)
	require.Equal(t, "alice", got.user)
	require.NotEmpty(t, got.session)
}

func TestLoginBadPassword(t *testing.T) {
	m := newTestModel(t)
	m.username.SetValue("alice")
	m.password.SetValue("wrong")
	next, _ := m.submitCredentials(false)
	got := next.(Model)
	require.Equal(t, stateLogin, got.state)
	require.Contains(t, got.status, "Invalid")
}

func TestRegisterThenChat(t *testing.T) {
	m := newTestModel(t)
	m.username.SetValue("bob")
	m.password.SetValue("secret")
	next, _ := m.submitCredentials(true)
	got := next.(Model)
	require.Equal(t, stateChat, got.state)
	require.Equal(t, "bob", got.user)
}

func TestLangCommand(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.enterChat("hi")
	m = next.(Model)

	next, _ = m.runCommand("/lang hindi")
	m = next.(Model)
	require.Equal(t, "Hindi", m.lang)

	next, _ = m.runCommand("/lang Klingon")
	m = next.(Model)
	require.Contains(t, m.status, "Unknown language")
	require.Equal(t, "Hindi", m.lang)
}

func TestSessionCommandStartsFresh(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.enterChat("hi")
	m = next.(Model)
	first := m.session
	m.transcript = []string{"old line"}

	next, _ = m.runCommand("/session")
	m = next.(Model)
	require.NotEqual(t, first, m.session)
	require.Empty(t, m.transcript)
}

func TestSessionCommandResumesById(t *testing.T) {
	histories := history.NewStore(t.TempDir())
	auth := &stubAuth{users: map[string]string{"alice": "pw"}}
	m := New(stubAssistant{}, auth, histories, translate.Languages, nil)
	m.user = "alice"

	h := histories.GetOrCreate("alice", "old-session")
	h.Append(domain.RoleHuman, "earlier question")
	h.Append(domain.RoleAI, "earlier answer")

	next, _ := m.enterChat("hi")
	m = next.(Model)
	next, _ = m.runCommand("/session old-session")
	m = next.(Model)
	require.Equal(t, "old-session", m.session)
	require.Len(t, m.transcript, 2)
	require.Contains(t, m.transcript[0], "earlier question")
	require.Contains(t, m.status, "Resumed")
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m := newTestModel(t)
	m.username.SetValue("alice")
	m.password.SetValue("pw")
	next, _ := m.submitCredentials(false)
	m = next.(Model)

	next, _ = m.runCommand("/logout")
	m = next.(Model)
	require.Equal(t, stateLogin, m.state)
	require.Empty(t, m.user)
}

func TestUnknownCommand(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.enterChat("hi")
	m = next.(Model)

	next, _ = m.runCommand("/bogus")
	m = next.(Model)
	require.Contains(t, m.status, "Unknown command")
}

func TestModelErrBlocksChatStatus(t *testing.T) {
	histories := history.NewStore(t.TempDir())
	auth := &stubAuth{users: map[string]string{"alice": "pw"}}
	m := New(stubAssistant{}, auth, histories, translate.Languages, errors.New("missing API key"))
	m.username.SetValue("alice")
	m.password.SetValue("pw")
	next, _ := m.submitCredentials(false)
	got := next.(Model)
	require.Contains(t, got.status, "Model unavailable")
}
