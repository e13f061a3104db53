package query

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zjrosen/acro/internal/cachemanager"
	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
)

type resolveInput struct {
	id      string
	classes []string
}

// Versioned is implemented by sources that can say which snapshot they are
// currently answering from. *glossary.Store is one.
type Versioned interface {
	Generation() uint64
}

func keyFor(gen uint64, id string, classes []string) string {
	return strconv.FormatUint(gen, 10) + "\x00" + id + "\x00" + strings.Join(classes, "\x1f")
}

// Cached memoizes Resolve results of an underlying Querier. When the source
// is Versioned, memo entries are keyed by its generation, so a reload makes
// every older entry unreachable before anyone is told about it. Listings
// always pass through.
type Cached struct {
	src  Querier
	memo *cachemanager.ReadThroughCache[string, string, resolveInput]
	ttl  time.Duration
	seen atomic.Uint64
}

var _ Querier = (*Cached)(nil)

// NewCached wraps src. With enabled false every call goes to src.
func NewCached(src Querier, cache cachemanager.CacheManager[string, string], ttl time.Duration, enabled bool) *Cached {
	c := &Cached{src: src, ttl: ttl}
	c.memo = cachemanager.NewReadThroughCache(cache, c.fetch, !enabled)
	return c
}

// NewInMemoryCached wraps src with a go-cache backed memo.
func NewInMemoryCached(src Querier, ttl time.Duration, enabled bool) *Cached {
	cache := cachemanager.NewInMemoryCacheManager[string, string]("resolve", ttl, cachemanager.DefaultCleanupInterval)
	return NewCached(src, cache, ttl, enabled)
}

func (c *Cached) fetch(_ context.Context, in resolveInput) (string, error) {
	text, ok := c.src.Resolve(in.id, in.classes)
	if !ok {
		return "", ErrUnknownAcronym
	}
	return text, nil
}

// generation must be read before the source is consulted: a value fetched
// after a reload may land under the older key, never the reverse.
func (c *Cached) generation(ctx context.Context) uint64 {
	v, ok := c.src.(Versioned)
	if !ok {
		return 0
	}
	gen := v.Generation()
	for {
		last := c.seen.Load()
		if gen <= last {
			return gen
		}
		if c.seen.CompareAndSwap(last, gen) {
			// Older generations are unreachable now; release them.
			c.Invalidate(ctx)
			return gen
		}
	}
}

// Resolve implements Querier. Unknown ids are never memoized.
func (c *Cached) Resolve(id string, classes []string) (string, bool) {
	ctx := context.Background()
	key := keyFor(c.generation(ctx), id, classes)
	text, err := c.memo.Get(ctx, key, resolveInput{id: id, classes: classes}, c.ttl)
	if err != nil {
		return "", false
	}
	return text, true
}

// ListAcronyms implements Querier.
func (c *Cached) ListAcronyms() []glossary.Summary {
	return c.src.ListAcronyms()
}

// ListClasses implements Querier.
func (c *Cached) ListClasses() []string {
	return c.src.ListClasses()
}

// Invalidate drops every memoized resolution.
func (c *Cached) Invalidate(ctx context.Context) {
	if err := c.memo.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "Could not flush resolution cache", err)
	}
}
