package preview

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/pubsub"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/render"
)

const glossaryV1 = `
acronyms:
  NATO:
    long: North Atlantic Treaty Organization
    short: NATO
`

const glossaryV2 = `
acronyms:
  NATO:
    long: North Atlantic Treaty Organisation
    short: NATO
  UN:
    long: United Nations
    short: UN
`

type fixture struct {
	store   *glossary.Store
	gloss   string
	docPath string
}

func newFixture(t *testing.T, doc string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		store:   glossary.NewStore(),
		gloss:   filepath.Join(dir, "acronyms.yaml"),
		docPath: filepath.Join(dir, "notes.md"),
	}
	t.Cleanup(f.store.Close)
	require.NoError(t, os.WriteFile(f.gloss, []byte(glossaryV1), 0o644))
	require.NoError(t, os.WriteFile(f.docPath, []byte(doc), 0o644))
	require.NoError(t, f.store.Load(context.Background(), f.gloss))
	return f
}

func (f fixture) model(t *testing.T, markdown bool) Model {
	t.Helper()
	m, err := New(context.Background(), Config{
		Path:     f.docPath,
		Querier:  f.store,
		Reloads:  f.store,
		Markdown: markdown,
		Style:    render.StylePlain,
	})
	require.NoError(t, err)
	return sized(m)
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_MissingDocument(t *testing.T) {
	_, err := New(context.Background(), Config{Path: filepath.Join(t.TempDir(), "nope.md"), Querier: glossary.NewStore()})
	require.Error(t, err)
}

func TestView_BeforeSize(t *testing.T) {
	f := newFixture(t, "x")
	m, err := New(context.Background(), Config{Path: f.docPath, Querier: f.store})
	require.NoError(t, err)
	require.Equal(t, "Loading...", m.View())
}

func TestView_RendersDocument(t *testing.T) {
	f := newFixture(t, "The +NATO summit and +UN.")
	view := ansi.Strip(f.model(t, false).View())

	require.Contains(t, view, "North Atlantic Treaty Organization (NATO)")
	require.Contains(t, view, "+UN")
	require.Contains(t, view, "1 acronyms")
	require.Contains(t, view, "1 unknown")
}

func TestUpdate_ReloadEventRerenders(t *testing.T) {
	f := newFixture(t, "The +NATO summit and +UN.")
	m := f.model(t, false)

	require.NoError(t, os.WriteFile(f.gloss, []byte(glossaryV2), 0o644))
	require.NoError(t, f.store.Load(context.Background(), f.gloss))

	m, cmd := update(m, pubsub.Event[glossary.Loaded]{
		Type:      pubsub.LoadedEvent,
		Payload:   glossary.Loaded{Path: f.gloss, Items: 2},
		Timestamp: time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC),
	})
	require.NotNil(t, cmd, "the listener is re-armed")

	view := ansi.Strip(m.View())
	require.Contains(t, view, "North Atlantic Treaty Organisation (NATO)")
	require.Contains(t, view, "United Nations (UN)")
	require.Contains(t, view, "2 acronyms")
	require.Contains(t, view, "reloaded 12:30:00")
	require.NotContains(t, view, "1 unknown")
}

func TestUpdate_FailedReloadShowsError(t *testing.T) {
	f := newFixture(t, "+NATO")
	m := f.model(t, false)

	m, _ = update(m, pubsub.Event[glossary.Loaded]{
		Type:    pubsub.LoadFailedEvent,
		Payload: glossary.Loaded{Path: f.gloss, Err: errors.New("yaml: bad")},
	})

	view := ansi.Strip(m.View())
	require.Contains(t, view, "reload failed: yaml: bad")
	require.Contains(t, view, "North Atlantic Treaty Organization (NATO)")
}

func TestInit_ListensForReloads(t *testing.T) {
	f := newFixture(t, "+NATO")
	m := f.model(t, false)

	cmd := m.Init()
	require.NotNil(t, cmd)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = f.store.Load(context.Background(), f.gloss)
	}()

	msg := cmd()
	ev, ok := msg.(pubsub.Event[glossary.Loaded])
	require.True(t, ok)
	require.Equal(t, pubsub.LoadedEvent, ev.Type)
}

func TestUpdate_ReloadKeyRereadsDocument(t *testing.T) {
	f := newFixture(t, "old +NATO")
	m := f.model(t, false)

	require.NoError(t, os.WriteFile(f.docPath, []byte("new text"), 0o644))

	m, cmd := update(m, keyMsg("r"))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())

	require.Contains(t, ansi.Strip(m.View()), "new text")
}

func TestUpdate_ReloadKeyReadError(t *testing.T) {
	f := newFixture(t, "+NATO")
	m := f.model(t, false)
	require.NoError(t, os.Remove(f.docPath))

	m, cmd := update(m, keyMsg("r"))
	m, _ = update(m, cmd())

	view := ansi.Strip(m.View())
	require.Contains(t, view, "read failed")
	require.Contains(t, view, "North Atlantic Treaty Organization (NATO)")
}

func TestUpdate_UnknownToggle(t *testing.T) {
	f := newFixture(t, "+NATO and +XYZ")
	m := f.model(t, false)

	m, _ = update(m, keyMsg("u"))
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Unknown acronyms")
	require.Contains(t, view, "+XYZ")
	require.Contains(t, view, render.UnknownHint)

	m, _ = update(m, keyMsg("u"))
	require.Contains(t, ansi.Strip(m.View()), "North Atlantic Treaty Organization (NATO)")
}

func TestUpdate_Quit(t *testing.T) {
	f := newFixture(t, "+NATO")
	m := f.model(t, false)

	_, cmd := update(m, keyMsg("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Markdown(t *testing.T) {
	f := newFixture(t, "# Title\n\nThe +NATO summit.")
	view := ansi.Strip(f.model(t, true).View())

	require.Contains(t, view, "Title")
	require.Contains(t, view, "North Atlantic Treaty")
}

func TestView_WrapsToWidth(t *testing.T) {
	f := newFixture(t, "+NATO +NATO +NATO +NATO")
	m := f.model(t, false)
	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 20})

	for _, line := range splitLines(ansi.Strip(m.viewport.View())) {
		require.LessOrEqual(t, ansi.StringWidth(line), 30)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func TestUpdate_ReloadThroughResolutionCache(t *testing.T) {
	f := newFixture(t, "The +NATO summit.")
	m, err := New(context.Background(), Config{
		Path:    f.docPath,
		Querier: query.NewInMemoryCached(f.store, time.Minute, true),
		Reloads: f.store,
		Style:   render.StylePlain,
	})
	require.NoError(t, err)
	m = sized(m)
	require.Contains(t, ansi.Strip(m.View()), "North Atlantic Treaty Organization (NATO)")

	require.NoError(t, os.WriteFile(f.gloss, []byte(glossaryV2), 0o644))
	require.NoError(t, f.store.Load(context.Background(), f.gloss))

	m, _ = update(m, pubsub.Event[glossary.Loaded]{
		Type:    pubsub.LoadedEvent,
		Payload: glossary.Loaded{Path: f.gloss, Items: 2},
	})

	view := ansi.Strip(m.View())
	require.Contains(t, view, "North Atlantic Treaty Organisation (NATO)")
	require.NotContains(t, view, "Organization")
}

func TestNoticeFrom(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{
			name:   "error",
			line:   "2026-01-02T10:45:00 [ERROR] [provider] Could not reload database path=a.yaml\n",
			want:   "Could not reload database path=a.yaml",
			wantOK: true,
		},
		{
			name:   "warning",
			line:   "2026-01-02T10:45:00 [WARN] [glossary] Skipping entry id=x\n",
			want:   "Skipping entry id=x",
			wantOK: true,
		},
		{
			name: "info is ignored",
			line: "2026-01-02T10:45:00 [INFO] [glossary] Database loaded\n",
		},
		{
			name: "not a log line",
			line: "garbage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := noticeFrom(tt.line)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUpdate_LogWarningsReachStatusBar(t *testing.T) {
	cleanup := log.InitWithWriter(io.Discard)
	defer cleanup()

	f := newFixture(t, "+NATO")
	m := f.model(t, false)
	require.NotNil(t, m.logs)

	log.Info(log.CatPreview, "just chatter")
	m, cmd := update(m, m.logs.Listen()())
	require.NotNil(t, cmd, "the log listener is re-armed")
	require.NotContains(t, ansi.Strip(m.View()), "just chatter")

	log.ErrorErr(log.CatProvider, "Could not reload database", errors.New("yaml: bad"))
	m, _ = update(m, m.logs.Listen()())
	require.Contains(t, ansi.Strip(m.View()), "Could not reload database")

	log.Info(log.CatPreview, "later chatter")
	m, _ = update(m, m.logs.Listen()())
	require.Contains(t, ansi.Strip(m.View()), "Could not reload database")
}
