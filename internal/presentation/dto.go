package presentation

import (
	"github.com/zjrosen/acro/internal/complete"
	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/render"
)

// AcronymDTO is one row of "acro list".
type AcronymDTO struct {
	ID    string `json:"id"`
	Full  string `json:"full"`
	Long  string `json:"long,omitempty"`
	Short string `json:"short,omitempty"`
}

// FromSummaries converts glossary listings to DTOs. The result is never nil
// so an empty glossary encodes as [].
func FromSummaries(items []glossary.Summary) []AcronymDTO {
	dtos := make([]AcronymDTO, len(items))
	for i, s := range items {
		dtos[i] = AcronymDTO(s)
	}
	return dtos
}

// CompletionDTO is one candidate from "acro complete".
type CompletionDTO struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Insert string `json:"insert"`
	Cursor int    `json:"cursor"`
	// Line is the input line with the candidate applied.
	Line string `json:"line"`
}

// FromCompletions converts candidates for line to DTOs.
func FromCompletions(line string, items []complete.Completion) []CompletionDTO {
	dtos := make([]CompletionDTO, len(items))
	for i, c := range items {
		dtos[i] = CompletionDTO{
			Label:  c.Label,
			Detail: c.Detail,
			From:   c.Edit.From,
			To:     c.Edit.To,
			Insert: c.Edit.Insert,
			Cursor: c.Edit.Cursor,
			Line:   c.Edit.Apply(line),
		}
	}
	return dtos
}

// UnknownDTO locates an unresolved reference in a rendered document.
type UnknownDTO struct {
	Text    string   `json:"text"`
	ID      string   `json:"id"`
	Line    int      `json:"line"`
	Column  int      `json:"column"`
	Hint    string   `json:"hint"`
	Classes []string `json:"classes,omitempty"`
}

// FromUnknowns converts render misses to DTOs with 1-based line and byte
// column positions within doc.
func FromUnknowns(doc string, items []render.Unknown) []UnknownDTO {
	dtos := make([]UnknownDTO, len(items))
	for i, u := range items {
		line, col := position(doc, u.Span.From)
		dtos[i] = UnknownDTO{
			Text:    u.Text,
			ID:      u.Span.ID,
			Line:    line,
			Column:  col,
			Hint:    u.Hint,
			Classes: u.Span.Classes,
		}
	}
	return dtos
}

func position(doc string, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(doc); i++ {
		if doc[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
