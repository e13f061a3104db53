package glossary

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/pubsub"
)

const tracerName = "github.com/zjrosen/acro/internal/glossary"

// Loaded describes the outcome of one load attempt.
type Loaded struct {
	Path  string
	Items int
	Err   error
}

// Store owns the current database snapshot. Readers always see a complete
// snapshot; Load builds the next one off to the side and swaps it in with a
// single pointer store.
type Store struct {
	db       atomic.Pointer[Database]
	gen      atomic.Uint64
	broker   *pubsub.Broker[Loaded]
	tracer   trace.Tracer
	readFile func(string) ([]byte, error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTracer overrides the tracer used for load spans.
func WithTracer(t trace.Tracer) StoreOption {
	return func(s *Store) {
		s.tracer = t
	}
}

// WithReadFile replaces the function used to read glossary files.
func WithReadFile(fn func(string) ([]byte, error)) StoreOption {
	return func(s *Store) {
		s.readFile = fn
	}
}

// NewStore returns a store holding an empty database.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		broker:   pubsub.NewBroker[Loaded](),
		tracer:   otel.Tracer(tracerName),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.db.Store(Empty())
	return s
}

// Load reads and parses path and, only if both succeed, replaces the
// current snapshot. On failure the previous snapshot stays current and the
// error is returned; reporting it is up to the caller.
func (s *Store) Load(ctx context.Context, path string) error {
	_, span := s.tracer.Start(ctx, "glossary.load",
		trace.WithAttributes(attribute.String("glossary.path", path)))
	defer span.End()

	log.Info(log.CatGlossary, "Loading database", "path", path)

	db, err := s.build(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.broker.Publish(pubsub.LoadFailedEvent, Loaded{Path: path, Err: err})
		return err
	}

	s.db.Store(db)
	s.gen.Add(1)

	span.SetAttributes(attribute.Int("glossary.items", db.Len()))
	log.Info(log.CatGlossary, "Database loaded", "path", path, "items", db.Len())
	s.broker.Publish(pubsub.LoadedEvent, Loaded{Path: path, Items: db.Len()})
	return nil
}

func (s *Store) build(path string) (*Database, error) {
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	db, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return db, nil
}

// Snapshot returns the current database. It is never nil.
func (s *Store) Snapshot() *Database {
	return s.db.Load()
}

// Generation counts successful loads. It is bumped after the new snapshot
// is in place and before subscribers hear about it, so a reader that sees
// generation n also sees snapshot n or later.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// Resolve resolves id against the current snapshot.
func (s *Store) Resolve(id string, classes []string) (string, bool) {
	return s.Snapshot().Resolve(id, classes)
}

// ListAcronyms lists the current snapshot's entries.
func (s *Store) ListAcronyms() []Summary {
	return s.Snapshot().ListAcronyms()
}

// ListClasses lists the current snapshot's classes.
func (s *Store) ListClasses() []string {
	return s.Snapshot().ListClasses()
}

// Subscribe delivers one event per load attempt until ctx is done.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Loaded] {
	return s.broker.Subscribe(ctx)
}

// Close ends all subscriptions.
func (s *Store) Close() {
	s.broker.Close()
}
