package complete

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/zjrosen/acro/internal/glossary"
)

// identifierTrigger matches a '+' after '[' or whitespace with no bracket
// between it and the cursor.
var identifierTrigger = regexp.MustCompile(`[\[\s]\+[^\[\]]*$`)

// Identifiers completes acronym ids after '+'.
type Identifiers struct{}

// Name implements Supplier.
func (Identifiers) Name() string { return "identifiers" }

// Applies implements Supplier.
func (Identifiers) Applies(ctx Context) (int, bool) {
	before := ctx.before()
	if strings.HasPrefix(ctx.Line, "+") && len(before) == 1 {
		return 1, true
	}
	if identifierTrigger.MatchString(before) {
		return strings.LastIndexByte(before, '+') + 1, true
	}
	return 0, false
}

// Entries implements Supplier. Candidates are ids whose id or full form
// contains the query, ordered by how closely they match.
func (Identifiers) Entries(ctx Context, q string) []Completion {
	if ctx.Source == nil {
		return nil
	}
	from := ctx.Cursor - len(q)
	q = strings.ToLower(q)

	var matches []glossary.Summary
	for _, s := range ctx.Source.ListAcronyms() {
		if strings.Contains(strings.ToLower(s.ID), q) || strings.Contains(strings.ToLower(s.Full), q) {
			matches = append(matches, s)
		}
	}

	slices.SortStableFunc(matches, func(a, b glossary.Summary) int {
		if c := cmpBool(startsWith(a, q), startsWith(b, q)); c != 0 {
			return c
		}
		if c := cmpBool(idOrShortContains(a, q), idOrShortContains(b, q)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	bracketed := from >= 2 && ctx.Line[from-2] == '['
	rest := ctx.Line[ctx.Cursor:]

	out := make([]Completion, 0, len(matches))
	for _, s := range matches {
		edit := Edit{From: from, To: ctx.Cursor, Insert: s.ID, Cursor: from + len(s.ID)}
		if bracketed {
			edit = bracketEdit(edit, rest)
		}
		out = append(out, Completion{Label: s.ID, Detail: s.Full, Edit: edit})
	}
	return out
}

// bracketEdit completes "[+id" into "[+id]{}" with the caret between the
// braces, reusing a closing bracket or brace pair already in place.
func bracketEdit(e Edit, rest string) Edit {
	switch {
	case strings.HasPrefix(rest, "]{"):
		e.Cursor = e.From + len(e.Insert) + 2
	case strings.HasPrefix(rest, "]"):
		e.To++
		e.Insert += "]{}"
		e.Cursor = e.From + len(e.Insert) - 1
	default:
		e.Insert += "]{}"
		e.Cursor = e.From + len(e.Insert) - 1
	}
	return e
}

func startsWith(s glossary.Summary, q string) bool {
	return strings.HasPrefix(strings.ToLower(s.ID), q) ||
		strings.HasPrefix(strings.ToLower(s.Short), q) ||
		strings.HasPrefix(strings.ToLower(s.Long), q)
}

func idOrShortContains(s glossary.Summary, q string) bool {
	return strings.Contains(strings.ToLower(s.ID), q) || strings.Contains(strings.ToLower(s.Short), q)
}

// cmpBool orders true before false.
func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
