// Package testutil builds glossary files for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// endingData is one entry under "endings".
type endingData struct {
	class string
	long  *string
	short *string
}

// Builder accumulates glossary content and writes it as YAML in file order.
type Builder struct {
	t        *testing.T
	options  []keyValue
	endings  []endingData
	acronyms []acronymData
}

type keyValue struct {
	key   string
	value any
}

// NewBuilder creates an empty glossary builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithOption adds an entry under "options". value should be a string or bool.
func (b *Builder) WithOption(key string, value any) *Builder {
	b.options = append(b.options, keyValue{key, value})
	return b
}

// WithEnding adds a class ending. An empty string leaves that side undefined.
func (b *Builder) WithEnding(class, long, short string) *Builder {
	e := endingData{class: class}
	if long != "" {
		e.long = &long
	}
	if short != "" {
		e.short = &short
	}
	b.endings = append(b.endings, e)
	return b
}

// WithAcronym adds an entry with optional per-class overrides.
func (b *Builder) WithAcronym(id, long, short string, opts ...AcronymOption) *Builder {
	a := acronymData{id: id}
	a.keys = append(a.keys, keyValue{"long", long}, keyValue{"short", short})
	for _, opt := range opts {
		opt(&a)
	}
	b.acronyms = append(b.acronyms, a)
	return b
}

// YAML renders the accumulated glossary.
func (b *Builder) YAML() string {
	b.t.Helper()
	body := mapping()
	if len(b.options) > 0 {
		opts := mapping()
		for _, kv := range b.options {
			add(opts, kv.key, scalarNode(kv.value))
		}
		add(body, "options", opts)
	}
	if len(b.endings) > 0 {
		endings := mapping()
		for _, e := range b.endings {
			m := mapping()
			if e.long != nil {
				add(m, "long", scalarNode(*e.long))
			}
			if e.short != nil {
				add(m, "short", scalarNode(*e.short))
			}
			add(endings, e.class, m)
		}
		add(body, "endings", endings)
	}
	for _, a := range b.acronyms {
		m := mapping()
		for _, kv := range a.keys {
			add(m, kv.key, scalarNode(kv.value))
		}
		add(body, a.id, m)
	}

	root := mapping()
	add(root, "acronyms", body)
	out, err := yaml.Marshal(root)
	require.NoError(b.t, err)
	return string(out)
}

// Build writes the glossary to a new file in a test temp dir and returns
// its path.
func (b *Builder) Build() string {
	b.t.Helper()
	return b.BuildAt(filepath.Join(b.t.TempDir(), "acronyms.yaml"))
}

// BuildAt writes the glossary to path, replacing any previous content.
func (b *Builder) BuildAt(path string) string {
	b.t.Helper()
	require.NoError(b.t, os.WriteFile(path, []byte(b.YAML()), 0o644))
	return path
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

func scalarNode(v any) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}
