// Package render replaces recognized acronym references in a document
// with their resolved text.
package render

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/query"
	"github.com/zjrosen/acro/internal/syntax"
	"github.com/zjrosen/acro/internal/tracing"
)

// UnknownHint describes a reference that did not resolve.
const UnknownHint = "unknown acronym"

// Style selects how resolved and unknown references are written.
type Style int

const (
	// StylePlain writes resolved text as is and leaves unknown references
	// untouched.
	StylePlain Style = iota
	// StyleANSI underlines resolved text and colours unknown references.
	StyleANSI
)

// ParseStyle maps a config value to a Style. Anything but "plain" is ANSI.
func ParseStyle(s string) Style {
	if strings.EqualFold(s, "plain") {
		return StylePlain
	}
	return StyleANSI
}

// Options configures Render.
type Options struct {
	Style Style
	// Renderer builds the ANSI styles. Nil uses lipgloss's default, which
	// follows the terminal on stdout.
	Renderer *lipgloss.Renderer
}

// Unknown is a reference that did not resolve.
type Unknown struct {
	Span syntax.Span
	Text string
	Hint string
}

// Result is a rendered document.
type Result struct {
	Text     string
	Resolved int
	Unknown  []Unknown
}

type styles struct {
	resolved lipgloss.Style
	unknown  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return styles{
		resolved: r.NewStyle().Underline(true),
		unknown: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5F5F"}).
			Bold(true),
	}
}

// Render rewrites doc, resolving every reference through q.
func Render(doc string, q query.Querier, opts Options) Result {
	return RenderContext(context.Background(), doc, q, opts)
}

// RenderContext is Render inside a tracing span.
func RenderContext(ctx context.Context, doc string, q query.Querier, opts Options) Result {
	_, span := otel.Tracer("github.com/zjrosen/acro/internal/render").Start(ctx, "render.document")
	defer span.End()

	var st styles
	if opts.Style == StyleANSI {
		st = newStyles(opts.Renderer)
	}

	var (
		b    strings.Builder
		res  Result
		last int
	)
	b.Grow(len(doc))

	for _, sp := range syntax.Scan(doc) {
		b.WriteString(doc[last:sp.From])
		last = sp.To

		source := sp.Text(doc)
		text, ok := q.Resolve(sp.ID, sp.Classes)
		if !ok {
			res.Unknown = append(res.Unknown, Unknown{Span: sp, Text: source, Hint: UnknownHint})
			if opts.Style == StyleANSI {
				source = st.unknown.Render(source)
			}
			b.WriteString(source)
			continue
		}

		res.Resolved++
		if opts.Style == StyleANSI {
			text = st.resolved.Render(text)
		}
		b.WriteString(text)
	}
	b.WriteString(doc[last:])
	res.Text = b.String()

	span.SetAttributes(
		attribute.Int(tracing.AttrRenderSpans, res.Resolved+len(res.Unknown)),
		attribute.Int(tracing.AttrRenderUnknown, len(res.Unknown)),
	)
	if len(res.Unknown) > 0 {
		log.Debug(log.CatRender, "Unresolved references", "count", len(res.Unknown), "first", res.Unknown[0].Text)
	}
	return res
}
