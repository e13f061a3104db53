package preview

import "github.com/charmbracelet/glamour"

// noMarginStyle drops glamour's document margin so the preview uses the
// full viewport width.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// markdownRenderer caches a glamour renderer for one wrap width.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

func (m *markdownRenderer) render(doc string, width int) (string, error) {
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		m.renderer, m.width = r, width
	}
	return m.renderer.Render(doc)
}
