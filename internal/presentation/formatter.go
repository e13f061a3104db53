package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	json   bool
	header lipgloss.Style
}

// NewFormatter creates a formatter writing aligned text, or indented JSON
// when asJSON is set.
func NewFormatter(writer io.Writer, asJSON bool) *Formatter {
	return &Formatter{
		writer: writer,
		json:   asJSON,
		header: lipgloss.NewStyle().Bold(true),
	}
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatAcronyms writes the glossary listing.
func (f *Formatter) FormatAcronyms(items []AcronymDTO) error {
	if f.json {
		return f.encode(items)
	}
	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = []string{a.ID, a.Full}
	}
	return f.table([]string{"ID", "EXPANSION"}, rows)
}

// FormatClasses writes one class per line.
func (f *Formatter) FormatClasses(classes []string) error {
	if f.json {
		if classes == nil {
			classes = []string{}
		}
		return f.encode(classes)
	}
	for _, c := range classes {
		if _, err := fmt.Fprintln(f.writer, c); err != nil {
			return err
		}
	}
	return nil
}

// FormatCompletions writes completion candidates.
func (f *Formatter) FormatCompletions(items []CompletionDTO) error {
	if f.json {
		return f.encode(items)
	}
	rows := make([][]string, len(items))
	for i, c := range items {
		rows[i] = []string{c.Label, c.Detail}
	}
	return f.table(nil, rows)
}

// FormatUnknowns writes unresolved references as path:line:col diagnostics.
func (f *Formatter) FormatUnknowns(path string, items []UnknownDTO) error {
	if f.json {
		return f.encode(items)
	}
	for _, u := range items {
		if _, err := fmt.Fprintf(f.writer, "%s:%d:%d: %s %s\n", path, u.Line, u.Column, u.Hint, u.Text); err != nil {
			return err
		}
	}
	return nil
}

// FormatResult writes an arbitrary value as JSON.
func (f *Formatter) FormatResult(result any) error {
	return f.encode(result)
}

// table pads every column but the last to its widest cell. Widths are
// measured in terminal cells so wide runes line up.
func (f *Formatter) table(headers []string, rows [][]string) error {
	all := rows
	if headers != nil {
		all = append([][]string{headers}, rows...)
	}
	var widths []int
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for r, row := range all {
		var b strings.Builder
		for i, cell := range row {
			if i < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[i]) + "  "
			}
			b.WriteString(cell)
		}
		line := strings.TrimRight(b.String(), " ")
		if headers != nil && r == 0 {
			line = f.header.Render(line)
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}
