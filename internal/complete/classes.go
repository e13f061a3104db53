package complete

import (
	"regexp"
	"strings"
)

var (
	// classTrigger matches "[+id]{" followed by one or more ".class"
	// tokens, the last possibly partial.
	classTrigger = regexp.MustCompile(`\[\+\w+\]\{(\s*\.\w*)+$`)
	// bareClassTrigger matches the "+id.class" shorthand.
	bareClassTrigger = regexp.MustCompile(`\+\w+\.\w*$`)
)

// Classes completes class names inside the braces of a bracketed reference.
type Classes struct{}

// Name implements Supplier.
func (Classes) Name() string { return "classes" }

// Applies implements Supplier.
func (Classes) Applies(ctx Context) (int, bool) {
	before := ctx.before()
	if !classTrigger.MatchString(before) {
		return 0, false
	}
	return strings.LastIndexByte(before, '.') + 1, true
}

// Entries implements Supplier.
func (Classes) Entries(ctx Context, q string) []Completion {
	if ctx.Source == nil {
		return nil
	}
	from := ctx.Cursor - len(q)
	ranked := rankClasses(ctx.Source.ListClasses(), q)

	out := make([]Completion, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, Completion{
			Label: c,
			Edit:  Edit{From: from, To: ctx.Cursor, Insert: c, Cursor: from + len(c)},
		})
	}
	return out
}

// BareClasses turns "+id.cl" into "[+ID]{.class}".
type BareClasses struct{}

// Name implements Supplier.
func (BareClasses) Name() string { return "bare-classes" }

// Applies implements Supplier.
func (BareClasses) Applies(ctx Context) (int, bool) {
	before := ctx.before()
	if !bareClassTrigger.MatchString(before) {
		return 0, false
	}
	return strings.LastIndexByte(before, '+'), true
}

// Entries implements Supplier. The typed id is matched case-insensitively
// against the known ids; an unknown id yields no candidates.
func (BareClasses) Entries(ctx Context, q string) []Completion {
	if ctx.Source == nil {
		return nil
	}
	dot := strings.IndexByte(q, '.')
	if !strings.HasPrefix(q, "+") || dot < 0 {
		return nil
	}
	typed, suffix := q[1:dot], q[dot+1:]

	var id string
	for _, s := range ctx.Source.ListAcronyms() {
		if strings.EqualFold(s.ID, typed) {
			id = s.ID
			break
		}
	}
	if id == "" {
		return nil
	}

	from := ctx.Cursor - len(q)
	ranked := rankClasses(ctx.Source.ListClasses(), suffix)

	out := make([]Completion, 0, len(ranked))
	for _, c := range ranked {
		insert := "[+" + id + "]{." + c + "}"
		out = append(out, Completion{
			Label: c,
			Edit:  Edit{From: from, To: ctx.Cursor, Insert: insert, Cursor: from + len(insert)},
		})
	}
	return out
}
