// Package complete proposes acronym identifiers and classes for a cursor
// position in a line of text.
package complete

import (
	"strings"

	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/query"
)

// Context is the line being edited and where the caret sits in it.
type Context struct {
	Line string
	// Cursor is a byte offset into Line.
	Cursor int
	Source query.Querier
}

// before returns the text between the start of the line and the cursor.
func (c Context) before() string {
	cur := min(max(c.Cursor, 0), len(c.Line))
	return c.Line[:cur]
}

// Edit replaces Line[From:To] with Insert and moves the caret to Cursor.
// All offsets are bytes within the original line, except Cursor which is
// within the edited line.
type Edit struct {
	From   int
	To     int
	Insert string
	Cursor int
}

// Apply returns line with the edit applied.
func (e Edit) Apply(line string) string {
	return line[:e.From] + e.Insert + line[e.To:]
}

// Completion is one candidate.
type Completion struct {
	Label  string
	Detail string
	Edit   Edit
}

// Supplier proposes completions for one kind of trigger.
type Supplier interface {
	Name() string
	// Applies reports where the completed text starts, if the supplier
	// handles this position at all.
	Applies(ctx Context) (from int, ok bool)
	// Entries returns candidates for query, the text between from and the
	// cursor. An empty result is not an error.
	Entries(ctx Context, query string) []Completion
}

// Default is the supplier order used by Complete when none are given.
var Default = []Supplier{BareClasses{}, Classes{}, Identifiers{}}

// Complete runs the first supplier that applies and returns its candidates.
func Complete(ctx Context, suppliers ...Supplier) []Completion {
	if len(suppliers) == 0 {
		suppliers = Default
	}
	cur := min(max(ctx.Cursor, 0), len(ctx.Line))
	ctx.Cursor = cur

	for _, s := range suppliers {
		from, ok := s.Applies(ctx)
		if !ok {
			continue
		}
		items := s.Entries(ctx, ctx.Line[from:cur])
		log.Debug(log.CatComplete, "Completing", "supplier", s.Name(), "from", from, "cursor", cur, "candidates", len(items))
		return items
	}
	return nil
}

// rankClasses keeps classes containing q (case-insensitive), listing those
// that start with q first. Otherwise configuration order is kept.
func rankClasses(classes []string, q string) []string {
	q = strings.ToLower(q)
	var starts, contains []string
	for _, c := range classes {
		lc := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lc, q):
			starts = append(starts, c)
		case strings.Contains(lc, q):
			contains = append(contains, c)
		}
	}
	return append(starts, contains...)
}
