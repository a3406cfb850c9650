package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/service"
	"docqa/internal/watch"
)

// QAPort is the TUI-facing subset of the Q&A service.
type QAPort interface {
	LoadFile(ctx context.Context, path string) (*service.Session, error)
	Ask(ctx context.Context, query string) (domain.Match, bool, error)
}

type state int

const (
	stateUpload state = iota
	stateAsk
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// NoPairsWarning is shown when an upload contains no numbered pairs.
const NoPairsWarning = "No Q&A pairs found. Ensure your file is formatted like:\n\n1. Question?\nAnswer..."

// Options configures a new Model.
type Options struct {
	// InitialPath is loaded before the first frame when set.
	InitialPath string
	// Changes delivers reload events for the loaded file; nil disables reloads.
	Changes <-chan watch.Event
	// Formats lists accepted extensions for the upload prompt.
	Formats []string
}

// fileChangedMsg reports that the loaded document changed on disk.
type fileChangedMsg struct{ path string }

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx        context.Context
	service    QAPort
	state      state
	pathInput  textinput.Model
	queryInput textinput.Model
	viewport   viewport.Model
	changes    <-chan watch.Event
	formats    []string
	document   string
	path       string
	pairs      int
	answer     *domain.Match
	status     string
	statusKind statusKind
	ready      bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, svc QAPort, opts Options) Model {
	pi := textinput.New()
	pi.Prompt = "> "
	pi.Placeholder = "path/to/file.pdf"
	pi.Focus()
	pi.CharLimit = 0

	qi := textinput.New()
	qi.Prompt = "> "
	qi.Placeholder = "Type a question and press Enter"
	qi.CharLimit = 0

	m := Model{
		ctx:        ctx,
		service:    svc,
		pathInput:  pi,
		queryInput: qi,
		viewport:   viewport.New(0, 0),
		changes:    opts.Changes,
		formats:    opts.Formats,
		status:     "Upload a file to begin.",
	}
	if opts.InitialPath != "" {
		m = m.load(opts.InitialPath)
	}
	return m
}

// Init starts the cursor blink and, in watch mode, waits for file changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

func waitForChange(ch <-chan watch.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg{path: ev.Path}
	}
}

// Update handles key, window and reload events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 3 + 2 + qh + 1 // header, status, prompt, input box, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case fileChangedMsg:
		if !samePath(msg.path, m.path) {
			return m, waitForChange(m.changes)
		}
		m = m.load(msg.path)
		if m.state == stateAsk {
			m.status = fmt.Sprintf("Reloaded %s. %s", m.document, m.status)
		}
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.state == stateUpload {
				if p := strings.TrimSpace(m.pathInput.Value()); p != "" {
					m = m.load(p)
				}
				return m, nil
			}
			return m.ask(), nil
		case "ctrl+o":
			if m.state == stateAsk {
				m.state = stateUpload
				m.queryInput.Blur()
				m.pathInput.Focus()
				m.status, m.statusKind = "Upload a new file; the current one stays loaded until then.", statusInfo
				return m, nil
			}
		case "esc":
			if m.state == stateUpload && m.pairs > 0 {
				m.state = stateAsk
				m.pathInput.Blur()
				m.queryInput.Focus()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	if m.state == stateUpload {
		m.pathInput, cmd = m.pathInput.Update(msg)
	} else {
		m.queryInput, cmd = m.queryInput.Update(msg)
	}
	return m, cmd
}

// load runs the upload pipeline for path and moves to the matching state.
func (m Model) load(path string) Model {
	m.answer = nil
	m.pairs = 0
	m.document = filepath.Base(path)
	m.path = path

	sess, err := m.service.LoadFile(m.ctx, path)
	if err != nil {
		m.state = stateUpload
		m.queryInput.Blur()
		m.pathInput.Focus()
		m.status, m.statusKind = describeLoadError(err)
		m.viewport.SetContent(m.renderAnswer())
		return m
	}

	m.pairs = len(sess.Pairs)
	m.state = stateAsk
	m.pathInput.Blur()
	m.pathInput.SetValue("")
	m.queryInput.SetValue("")
	m.queryInput.Focus()
	m.status, m.statusKind = fmt.Sprintf("Found %d Q&A pairs.", m.pairs), statusSuccess
	m.viewport.SetContent(m.renderAnswer())
	return m
}

func (m Model) ask() Model {
	match, ok, err := m.service.Ask(m.ctx, m.queryInput.Value())
	switch {
	case err != nil:
		m.answer = nil
		m.status, m.statusKind = "Error: "+err.Error(), statusError
	case !ok:
		m.answer = nil
	default:
		m.answer = &match
		m.status, m.statusKind = fmt.Sprintf("Found %d Q&A pairs.", m.pairs), statusSuccess
	}
	m.viewport.SetContent(m.renderAnswer())
	return m
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && aa == bb
}

func describeLoadError(err error) (string, statusKind) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "Unsupported file type.", statusError
	case errors.Is(err, domain.ErrNoPairsFound):
		return NoPairsWarning, statusWarning
	case errors.Is(err, domain.ErrDecodeFailure):
		return "Could not read file: " + err.Error(), statusError
	default:
		return "Error: " + err.Error(), statusError
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Document Q&A"))
	b.WriteString("\n")
	if m.state == stateAsk {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%s · ctrl+o upload another file · ctrl+c quit", m.document)))
		b.WriteString("\n")
		b.WriteString(answerBoxStyle.Render(m.viewport.View()))
		b.WriteString("\n")
		b.WriteString("Ask a question:\n")
		b.WriteString(inputBoxStyle.Render(m.queryInput.View()))
	} else {
		b.WriteString(subtleStyle.Render("ctrl+c quit"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Upload a file (%s):\n", strings.ToUpper(strings.Join(m.formats, ", "))))
		b.WriteString(inputBoxStyle.Render(m.pathInput.View()))
	}
	b.WriteString("\n")
	b.WriteString(statusStyles[m.statusKind].Render(m.status))
	return b.String()
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return ""
	}
	p := m.answer.Pair
	return labelStyle.Render("Best Match Answer:") + "\n\n" + questionStyle.Render(p.Question) + "\n" + p.Answer
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyles   = map[statusKind]lipgloss.Style{
		statusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		statusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		statusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		statusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)
