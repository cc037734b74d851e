package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"legalease/internal/domain"
	"legalease/internal/history"
	"legalease/internal/service"
)

// AssistantPort is the TUI-facing subset of the assistant service.
type AssistantPort interface {
	Ingest(ctx context.Context, docs []service.Document) (*domain.IngestionBatch, []string, error)
	Ask(ctx context.Context, user, session, question, targetLang string) (service.Answer, error)
}

// Authenticator is the TUI-facing subset of the credential store.
type Authenticator interface {
	Add(username, password string) error
	Verify(username, password string) bool
}

type state int

const (
	stateLogin state = iota
	stateChat
)

const loginHelp = "tab: switch field • enter: sign in • ctrl+r: register • ctrl+c: quit"

const chatHelp = `Commands:
  /load <path> [path...]  index documents (pdf, docx, pptx, xlsx, csv, html, txt, md)
  /lang <language>        set the answer language (default English)
  /clear                  wipe this session's chat history
  /session [id]           start a fresh session, or resume one by id
  /logout                 sign out
  /help                   show this message`

// Model drives the two-screen flow: credential entry, then the chat loop.
type Model struct {
	assistant AssistantPort
	auth      Authenticator
	histories *history.Store
	languages []string

	// nil once the model client initialized; otherwise chat is blocked
	// until credentials are fixed and the app restarted.
	modelErr error

	state    state
	username textinput.Model
	password textinput.Model

	user       string
	session    string
	lang       string
	transcript []string

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	busy     bool
	status   string
	ready    bool
}

// New creates the TUI model. languages lists the names accepted by /lang;
// modelErr, when non-nil, blocks the ask path with a persistent notice.
func New(assistant AssistantPort, auth Authenticator, histories *history.Store, languages []string, modelErr error) Model {
	un := textinput.New()
	un.Prompt = "Username: "
	un.Focus()
	pw := textinput.New()
	pw.Prompt = "Password: "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Ask a question, or /help"
	in.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		auth:      auth,
		histories: histories,
		languages: languages,
		modelErr:  modelErr,
		state:     stateLogin,
		username:  un,
		password:  pw,
		input:     in,
		viewport:  vp,
		spin:      sp,
		lang:      "English",
		status:    "Sign in or register to start.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct {
	question string
	answer   service.Answer
	err      error
}

type ingestMsg struct {
	batch    *domain.IngestionBatch
	warnings []string
	err      error
}

func (m Model) askCmd(question string) tea.Cmd {
	user, session, lang := m.user, m.session, m.lang
	return func() tea.Msg {
		ans, err := m.assistant.Ask(context.Background(), user, session, question, lang)
		return answerMsg{question: question, answer: ans, err: err}
	}
}

func (m Model) ingestCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		var docs []service.Document
		for _, p := range paths {
			content, err := os.ReadFile(p)
			if err != nil {
				return ingestMsg{err: fmt.Errorf("read %s: %w", p, err)}
			}
			docs = append(docs, service.Document{Name: filepath.Base(p), Content: content})
		}
		batch, warnings, err := m.assistant.Ingest(context.Background(), docs)
		return ingestMsg{batch: batch, warnings: warnings, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		vh := msg.Height - ih - 4 // header, status, spacers
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-ch)
		m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.appendTurn(userStyle.Render("You: ")+msg.question, assistantStyle.Render("LegalEase: ")+msg.answer.Text)
		if len(msg.answer.Sources) > 0 && !msg.answer.NoAnswer {
			m.appendLine(sourceStyle.Render("Sources: " + strings.Join(msg.answer.Sources, ", ")))
		}
		m.status = statusAfterAnswer(msg.answer)
		return m, nil

	case ingestMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Indexed %d file(s) into %d chunks.", len(msg.batch.DocNames), len(msg.batch.Chunks))
		if msg.batch.Summary != "" {
			m.appendLine(summaryStyle.Render("Document summary: " + msg.batch.Summary))
		}
		for _, w := range msg.warnings {
			m.appendLine(warnStyle.Render("Warning: " + w))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.state == stateLogin {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.username.Focused() {
			m.username.Blur()
			m.password.Focus()
		} else {
			m.password.Blur()
			m.username.Focus()
		}
		return m, textinput.Blink
	case "enter":
		return m.submitCredentials(false)
	case "ctrl+r":
		return m.submitCredentials(true)
	}
	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) submitCredentials(register bool) (tea.Model, tea.Cmd) {
	user := strings.TrimSpace(m.username.Value())
	pass := m.password.Value()
	if register {
		if err := m.auth.Add(user, pass); err != nil {
			m.status = "Registration failed: " + err.Error()
			return m, nil
		}
	} else if !m.auth.Verify(user, pass) {
		m.status = "Invalid username or password."
		return m, nil
	}
	m.user = user
	m.password.SetValue("")
	return m.enterChat("Welcome, " + user + ". Index documents with /load, then ask away.")
}

func (m Model) enterChat(status string) (tea.Model, tea.Cmd) {
	m.state = stateChat
	m.session = uuid.NewString()
	m.transcript = nil
	m.status = status
	if m.modelErr != nil {
		m.status = "Model unavailable: " + m.modelErr.Error()
	}
	m.input.SetValue("")
	m.input.Focus()
	m.viewport.SetContent("")
	return m, textinput.Blink
}

// resumeSession switches to the given session id and replays its persisted
// messages into the transcript.
func (m Model) resumeSession(id string) (tea.Model, tea.Cmd) {
	m.session = id
	m.transcript = nil
	h := m.histories.GetOrCreate(m.user, id)
	for _, msg := range h.Messages {
		if msg.Role == domain.RoleHuman {
			m.transcript = append(m.transcript, userStyle.Render("You: ")+msg.Content)
		} else {
			m.transcript = append(m.transcript, assistantStyle.Render("LegalEase: ")+msg.Content)
		}
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
	if len(h.Messages) == 0 {
		m.status = "Session " + shortID(id) + " started empty."
	} else {
		m.status = fmt.Sprintf("Resumed session %s with %d messages.", shortID(id), len(h.Messages))
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.busy {
			return m, nil
		}
		m.input.SetValue("")
		if strings.HasPrefix(line, "/") {
			return m.runCommand(line)
		}
		if m.modelErr != nil {
			m.status = "Model unavailable: " + m.modelErr.Error()
			return m, nil
		}
		m.busy = true
		m.status = "Thinking..."
		return m, tea.Batch(m.spin.Tick, m.askCmd(line))
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/help":
		m.appendLine(helpStyle.Render(chatHelp))
		return m, nil
	case "/load":
		if len(fields) < 2 {
			m.status = "Usage: /load <path> [path...]"
			return m, nil
		}
		m.busy = true
		m.status = "Indexing documents..."
		return m, tea.Batch(m.spin.Tick, m.ingestCmd(fields[1:]))
	case "/lang":
		if len(fields) < 2 {
			m.status = "Current language: " + m.lang + ". Available: " + strings.Join(m.languages, ", ")
			return m, nil
		}
		want := strings.Join(fields[1:], " ")
		for _, l := range m.languages {
			if strings.EqualFold(l, want) {
				m.lang = l
				m.status = "Answers will be in " + l + "."
				return m, nil
			}
		}
		m.status = "Unknown language " + want + ". Available: " + strings.Join(m.languages, ", ")
		return m, nil
	case "/clear":
		if err := m.histories.Clear(m.user, m.session); err != nil {
			m.status = "Error: " + err.Error()
			return m, nil
		}
		m.transcript = nil
		m.viewport.SetContent("")
		m.status = "Chat history cleared."
		return m, nil
	case "/session":
		if len(fields) > 1 {
			return m.resumeSession(fields[1])
		}
		return m.enterChat("Started a new session.")
	case "/logout":
		m.histories.Drop()
		m.state = stateLogin
		m.user = ""
		m.transcript = nil
		m.viewport.SetContent("")
		m.username.SetValue("")
		m.username.Focus()
		m.password.Blur()
		m.status = "Signed out."
		return m, textinput.Blink
	}
	m.status = "Unknown command " + fields[0] + ". Try /help."
	return m, nil
}

func (m *Model) appendTurn(question, answer string) {
	m.transcript = append(m.transcript, question, answer)
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *Model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

func statusAfterAnswer(a service.Answer) string {
	switch {
	case a.NoAnswer:
		return "No answer found."
	case a.FromWeb:
		return "Answered from web search."
	default:
		return "Answered from your documents."
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("LegalEase Chatbot")
	if m.state == stateLogin {
		form := m.username.View() + "\n" + m.password.View()
		return header + "\n\n" + loginBoxStyle.Render(form) + "\n" +
			statusStyle.Render(m.status) + "\n" + helpStyle.Render(loginHelp)
	}
	status := m.status
	if m.busy {
		status = m.spin.View() + " " + status
	}
	meta := helpStyle.Render(fmt.Sprintf("user: %s • lang: %s • session: %s", m.user, m.lang, shortID(m.session)))
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	return header + "  " + meta + "\n" + chat + "\n" + input + "\n" + statusStyle.Render(status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	loginBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
