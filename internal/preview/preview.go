// Package preview is a terminal live view of a rendered document. It
// re-renders whenever the glossary reloads.
package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/keys"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/pubsub"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/render"
)

const (
	minWidth       = 20
	maxNameWidth   = 32
	maxNoticeWidth = 60
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5F5F"}).
			Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Config configures the preview.
type Config struct {
	// Path is the document to render.
	Path    string
	Querier query.Querier
	// Reloads delivers glossary load attempts. Nil disables live updates.
	Reloads pubsub.Subscriber[glossary.Loaded]
	// Markdown renders the resolved document through glamour.
	Markdown bool
	Style    render.Style
	ReadFile func(string) ([]byte, error)
}

// docLoadedMsg carries a fresh read of the document.
type docLoadedMsg struct {
	text string
	err  error
}

// Model is the preview's Bubble Tea model.
type Model struct {
	cfg      Config
	keys     keys.Preview
	help     help.Model
	viewport viewport.Model
	listener *pubsub.ContinuousListener[glossary.Loaded]
	logs     *log.LogListener
	markdown *markdownRenderer

	width, height int
	ready         bool
	showUnknown   bool

	doc        string
	result     render.Result
	items      int
	lastReload time.Time
	loadErr    error
	docErr     error
	// notice is the latest warning or error written to the log.
	notice string
}

// New reads the document and subscribes to reloads for the life of ctx.
func New(ctx context.Context, cfg Config) (Model, error) {
	if cfg.ReadFile == nil {
		cfg.ReadFile = os.ReadFile
	}
	data, err := cfg.ReadFile(cfg.Path)
	if err != nil {
		return Model{}, fmt.Errorf("reading %s: %w", cfg.Path, err)
	}

	m := Model{
		cfg:      cfg,
		keys:     keys.DefaultPreview(),
		help:     help.New(),
		markdown: &markdownRenderer{},
		doc:      string(data),
		items:    len(cfg.Querier.ListAcronyms()),
	}
	if cfg.Reloads != nil {
		m.listener = pubsub.NewContinuousListener[glossary.Loaded](ctx, cfg.Reloads)
	}
	m.logs = log.NewListener(ctx)
	m.rerender()
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.listener != nil {
		cmds = append(cmds, m.listener.Listen())
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case pubsub.Event[glossary.Loaded]:
		m.handleLoad(msg)
		var cmd tea.Cmd
		if m.listener != nil {
			cmd = m.listener.Listen()
		}
		return m, cmd

	case log.LogEvent:
		if n, ok := noticeFrom(msg.Payload); ok {
			m.notice = n
		}
		var cmd tea.Cmd
		if m.logs != nil {
			cmd = m.logs.Listen()
		}
		return m, cmd

	case docLoadedMsg:
		if msg.err != nil {
			m.docErr = msg.err
			log.ErrorErr(log.CatPreview, "Could not re-read document", msg.err, "path", m.cfg.Path)
			return m, nil
		}
		m.docErr = nil
		m.doc = msg.text
		m.rerender()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.readDoc()
		case key.Matches(msg, m.keys.Unknown):
			m.showUnknown = !m.showUnknown
			m.setContent()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.viewport.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.ScrollDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.PageUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.PageDown()
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleLoad(ev pubsub.Event[glossary.Loaded]) {
	switch ev.Type {
	case pubsub.LoadedEvent:
		m.loadErr = nil
		m.items = ev.Payload.Items
		m.lastReload = ev.Timestamp
		m.rerender()
	case pubsub.LoadFailedEvent:
		// The previous glossary is still current; only the status changes.
		m.loadErr = ev.Payload.Err
	}
}

// noticeFrom picks warnings and errors out of a formatted log line and
// returns the part after the level and category tags.
func noticeFrom(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, " [")
	if !ok {
		return "", false
	}
	level, rest, ok := strings.Cut(rest, "] ")
	if !ok || (level != log.LevelWarn.String() && level != log.LevelError.String()) {
		return "", false
	}
	if strings.HasPrefix(rest, "[") {
		if _, after, found := strings.Cut(rest, "] "); found {
			rest = after
		}
	}
	return strings.TrimSpace(rest), true
}

func (m Model) readDoc() tea.Cmd {
	path, read := m.cfg.Path, m.cfg.ReadFile
	return func() tea.Msg {
		data, err := read(path)
		return docLoadedMsg{text: string(data), err: err}
	}
}

// rerender resolves the document against the current glossary.
func (m *Model) rerender() {
	style := m.cfg.Style
	if m.cfg.Markdown {
		style = render.StylePlain
	}
	m.result = render.Render(m.doc, m.cfg.Querier, render.Options{Style: style})
	m.setContent()
}

func (m *Model) resize() {
	footer := lipgloss.Height(m.footer())
	h := max(m.height-footer, 1)
	if !m.ready {
		m.viewport = viewport.New(m.width, h)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = h
	}
	m.setContent()
}

func (m *Model) setContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
}

func (m Model) content() string {
	width := max(m.width, minWidth)

	if m.showUnknown {
		if len(m.result.Unknown) == 0 {
			return "No unknown acronyms."
		}
		var b strings.Builder
		b.WriteString(titleStyle.Render("Unknown acronyms") + "\n\n")
		for _, u := range m.result.Unknown {
			fmt.Fprintf(&b, "  %s  %s\n", errorStyle.Render(u.Text), statusStyle.Render(u.Hint))
		}
		return b.String()
	}

	if m.cfg.Markdown {
		out, err := m.markdown.render(m.result.Text, width)
		if err == nil {
			return out
		}
		log.ErrorErr(log.CatPreview, "Markdown rendering failed", err)
	}
	return wordwrap.String(m.result.Text, width)
}

func (m Model) status() string {
	name := runewidth.Truncate(filepath.Base(m.cfg.Path), maxNameWidth, "…")
	parts := []string{
		titleStyle.Render(name),
		statusStyle.Render(fmt.Sprintf("%d acronyms", m.items)),
	}
	if n := len(m.result.Unknown); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d unknown", n)))
	}
	if !m.lastReload.IsZero() {
		parts = append(parts, statusStyle.Render("reloaded "+m.lastReload.Format("15:04:05")))
	}
	if m.loadErr != nil {
		parts = append(parts, errorStyle.Render("reload failed: "+m.loadErr.Error()))
	}
	if m.docErr != nil {
		parts = append(parts, errorStyle.Render("read failed: "+m.docErr.Error()))
	}
	if m.notice != "" {
		parts = append(parts, errorStyle.Render(runewidth.Truncate(m.notice, maxNoticeWidth, "…")))
	}
	return strings.Join(parts, statusStyle.Render(" · "))
}

func (m Model) footer() string {
	m.help.Width = m.width
	return m.status() + "\n" + m.help.View(m.keys)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.footer()
}

// Run starts the preview as a full-screen program.
func Run(ctx context.Context, cfg Config) error {
	m, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
