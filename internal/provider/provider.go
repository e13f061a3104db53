// Package provider runs the glossary lifecycle: the boot load, the
// watch-and-reload loop, and an orderly shutdown that releases the file
// watch before returning.
package provider

import (
	"context"
	"errors"
	"sync"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/watcher"
)

// Config configures a Provider.
type Config struct {
	// Path is the glossary file.
	Path string
	// Watch enables reloading when the file changes.
	Watch bool
	// Watcher tunes change detection. Its Path is overwritten with Path.
	Watcher watcher.Config
}

// Provider keeps a glossary.Store loaded from one file.
type Provider struct {
	cfg     Config
	store   *glossary.Store
	watcher *watcher.Watcher

	mu       sync.Mutex
	watching bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a provider for store. Nothing is read until Boot.
func New(store *glossary.Store, cfg Config) (*Provider, error) {
	if cfg.Path == "" {
		return nil, errors.New("provider: glossary path is required")
	}
	p := &Provider{cfg: cfg, store: store}
	if cfg.Watch {
		wcfg := cfg.Watcher
		wcfg.Path = cfg.Path
		w, err := watcher.New(wcfg)
		if err != nil {
			return nil, err
		}
		p.watcher = w
	}
	return p, nil
}

// Store returns the store the provider keeps current.
func (p *Provider) Store() *glossary.Store {
	return p.store
}

// Boot performs the initial load and, if configured, starts watching. A
// failed boot load is logged and returned; the store stays empty and the
// file is not watched.
func (p *Provider) Boot(ctx context.Context) error {
	log.Debug(log.CatProvider, "Acronyms provider booting up ...")
	if err := p.Load(ctx, p.cfg.Path, p.cfg.Watch); err != nil {
		log.ErrorErr(log.CatProvider, "Could not load database", err, "path", p.cfg.Path)
		return err
	}
	return nil
}

// Load loads path into the store. With watch set, a successful load also
// registers the file with the watcher and starts the reload loop; the
// registration happens at most once.
func (p *Provider) Load(ctx context.Context, path string, watch bool) error {
	if err := p.store.Load(ctx, path); err != nil {
		return err
	}
	if watch {
		return p.startWatching(ctx)
	}
	return nil
}

func (p *Provider) startWatching(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.watching || p.watcher == nil {
		return nil
	}

	changes, err := p.watcher.Start()
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.done = make(chan struct{})
	p.watching = true

	go p.reloadLoop(loopCtx, changes, p.done)
	return nil
}

// reloadLoop reloads on each settled change. Reload failures are logged
// and never end the loop.
func (p *Provider) reloadLoop(ctx context.Context, changes <-chan struct{}, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := p.Load(ctx, p.cfg.Path, false); err != nil {
				log.ErrorErr(log.CatProvider, "Could not reload database", err, "path", p.cfg.Path)
			}
		}
	}
}

// Shutdown stops the reload loop, waits for it, and then releases the
// file watch. It is safe to call more than once.
func (p *Provider) Shutdown(ctx context.Context) error {
	log.Debug(log.CatProvider, "Acronyms provider shutting down ...")

	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	var waitErr error
	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			// The watch handle is released below even if the loop is stuck.
			waitErr = ctx.Err()
		}
	}

	var stopErr error
	if p.watcher != nil {
		if stopErr = p.watcher.Stop(); stopErr != nil {
			log.ErrorErr(log.CatProvider, "Could not close file watcher", stopErr)
		}
	}
	return errors.Join(waitErr, stopErr)
}
