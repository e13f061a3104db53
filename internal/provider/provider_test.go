package provider

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/pubsub"
	"github.com/zjrosen/acro/internal/watcher"
)

const first = `
acronyms:
  plos:
    long: Public Library of Science
    short: PLOS
`

const second = `
acronyms:
  plos:
    long: Public Library of Science
    short: PLOS
  NATO:
    long: North Atlantic Treaty Organization
    short: NATO
`

// lockedBuffer lets the reload goroutine log while the test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func captureLogs(t *testing.T) *lockedBuffer {
	t.Helper()
	buf := &lockedBuffer{}
	cleanup := log.InitWithWriter(buf)
	t.Cleanup(cleanup)
	return buf
}

func writeGlossary(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acronyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newProvider(t *testing.T, path string, watch bool) *Provider {
	t.Helper()
	store := glossary.NewStore()
	t.Cleanup(store.Close)

	p, err := New(store, Config{
		Path:  path,
		Watch: watch,
		Watcher: watcher.Config{
			Debounce:     50 * time.Millisecond,
			PollInterval: 20 * time.Millisecond,
			AtomicWindow: 20 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

// nextLoad waits for the next load attempt on the store.
func nextLoad(t *testing.T, ch <-chan pubsub.Event[glossary.Loaded]) pubsub.Event[glossary.Loaded] {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a reload")
		return pubsub.Event[glossary.Loaded]{}
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(glossary.NewStore(), Config{})
	require.Error(t, err)
}

func TestBoot_LoadsDatabase(t *testing.T) {
	buf := captureLogs(t)
	p := newProvider(t, writeGlossary(t, first), false)

	require.NoError(t, p.Boot(context.Background()))
	require.Len(t, p.Store().ListAcronyms(), 1)
	require.Contains(t, buf.String(), "Acronyms provider booting up ...")
}

func TestBoot_MissingFileLogsOnce(t *testing.T) {
	buf := captureLogs(t)
	p := newProvider(t, filepath.Join(t.TempDir(), "missing.yaml"), true)

	require.Error(t, p.Boot(context.Background()))
	require.Empty(t, p.Store().ListAcronyms())
	require.Equal(t, 1, strings.Count(buf.String(), "[ERROR]"))
	require.False(t, p.watching, "a failed boot does not register the watch")
}

func TestReload_OnChange(t *testing.T) {
	path := writeGlossary(t, first)
	p := newProvider(t, path, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := p.Store().Subscribe(ctx)

	require.NoError(t, p.Boot(ctx))
	require.Equal(t, pubsub.LoadedEvent, nextLoad(t, events).Type)

	require.NoError(t, os.WriteFile(path, []byte(second), 0o644))

	ev := nextLoad(t, events)
	require.Equal(t, pubsub.LoadedEvent, ev.Type)
	require.Equal(t, 2, ev.Payload.Items)

	text, ok := p.Store().Resolve("NATO", nil)
	require.True(t, ok)
	require.Equal(t, "North Atlantic Treaty Organization (NATO)", text)
}

func TestReload_BadFileKeepsPreviousAndLogsOnce(t *testing.T) {
	buf := captureLogs(t)
	path := writeGlossary(t, first)
	p := newProvider(t, path, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := p.Store().Subscribe(ctx)

	require.NoError(t, p.Boot(ctx))
	nextLoad(t, events)

	require.NoError(t, os.WriteFile(path, []byte("acronyms: [unterminated"), 0o644))
	require.Equal(t, pubsub.LoadFailedEvent, nextLoad(t, events).Type)

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "Could not reload database")
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, strings.Count(buf.String(), "[ERROR]"))
	require.Len(t, p.Store().ListAcronyms(), 1)

	// the loop survives the failure
	require.NoError(t, os.WriteFile(path, []byte(second), 0o644))
	require.Equal(t, pubsub.LoadedEvent, nextLoad(t, events).Type)
	require.Len(t, p.Store().ListAcronyms(), 2)
}

func TestLoad_WatchRegistersOnce(t *testing.T) {
	p := newProvider(t, writeGlossary(t, first), true)
	ctx := context.Background()

	require.NoError(t, p.Load(ctx, p.cfg.Path, true))
	done := p.done
	require.NoError(t, p.Load(ctx, p.cfg.Path, true))
	require.Equal(t, done, p.done, "a second watch request reuses the running loop")
}

func TestLoad_WithoutWatch(t *testing.T) {
	p := newProvider(t, writeGlossary(t, first), true)

	require.NoError(t, p.Load(context.Background(), p.cfg.Path, false))
	require.False(t, p.watching)
}

func TestShutdown_StopsReloading(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeGlossary(t, first)
	p := newProvider(t, path, true)

	require.NoError(t, p.Boot(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	select {
	case <-p.done:
	default:
		t.Fatal("reload loop still running after Shutdown")
	}

	require.NoError(t, os.WriteFile(path, []byte(second), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Len(t, p.Store().ListAcronyms(), 1)

	require.NoError(t, p.Shutdown(context.Background()), "Shutdown is idempotent")
}

func TestShutdown_TimeoutStillReleasesWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeGlossary(t, first)

	var (
		stall   atomic.Bool
		entered = make(chan struct{}, 1)
		release = make(chan struct{})
	)
	store := glossary.NewStore(glossary.WithReadFile(func(name string) ([]byte, error) {
		if stall.Load() {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
		}
		return os.ReadFile(name)
	}))
	defer store.Close()

	p, err := New(store, Config{
		Path:  path,
		Watch: true,
		Watcher: watcher.Config{
			Debounce:     50 * time.Millisecond,
			PollInterval: 20 * time.Millisecond,
			AtomicWindow: 20 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	require.NoError(t, p.Boot(context.Background()))

	stall.Store(true)
	require.NoError(t, os.WriteFile(path, []byte(second), 0o644))
	select {
	case <-entered:
	case <-time.After(3 * time.Second):
		t.Fatal("reload never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	select {
	case <-p.done:
	case <-time.After(3 * time.Second):
		t.Fatal("reload loop did not exit once unblocked")
	}
}

func TestShutdown_WithoutBoot(t *testing.T) {
	p := newProvider(t, writeGlossary(t, first), true)
	require.NoError(t, p.Shutdown(context.Background()))
}
