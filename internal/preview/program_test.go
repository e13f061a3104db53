package preview

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/render"
)

func contains(s string) func([]byte) bool {
	return func(b []byte) bool { return bytes.Contains(b, []byte(s)) }
}

func TestProgram_FollowsGlossaryReloads(t *testing.T) {
	f := newFixture(t, "Allies in +NATO and +UN.\n")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m, err := New(ctx, Config{
		Path:    f.docPath,
		Querier: query.NewInMemoryCached(f.store, time.Minute, true),
		Reloads: f.store,
		Style:   render.StylePlain,
	})
	require.NoError(t, err)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 20))

	teatest.WaitFor(t, tm.Output(), contains("North Atlantic Treaty Organization (NATO)"),
		teatest.WithDuration(3*time.Second))

	require.NoError(t, os.WriteFile(f.gloss, []byte(glossaryV2), 0o644))
	require.NoError(t, f.store.Load(ctx, f.gloss))

	teatest.WaitFor(t, tm.Output(), contains("North Atlantic Treaty Organisation (NATO)"),
		teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	require.Equal(t, 2, final.items)
	require.Empty(t, final.result.Unknown)
	require.False(t, final.lastReload.IsZero())
}

func TestProgram_QuitsOnCtrlC(t *testing.T) {
	f := newFixture(t, "+NATO")
	m, err := New(context.Background(), Config{
		Path:    f.docPath,
		Querier: f.store,
		Style:   render.StylePlain,
	})
	require.NoError(t, err)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 10))
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
