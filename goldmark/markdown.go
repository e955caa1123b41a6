// Package goldmark renders assistant replies written in markdown as
// ANSI-styled terminal text, using goldmark and its GFM extensions for
// parsing and lipgloss for styling.
package goldmark

import (
	"github.com/fwojciec/robbie"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const defaultWidth = 80

// Renderer renders markdown with a fixed theme and wrap width. It is safe
// for sequential use; a Loop renders one reply at a time.
type Renderer struct {
	styles styles
	parser parser.Parser
	width  int
}

// New returns a Renderer that wraps prose to width columns. A width of
// zero or less means 80.
func New(theme robbie.Theme, width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	md := goldmark.New(goldmark.WithExtensions(
		extension.Strikethrough,
		extension.TaskList,
		extension.Table,
		extension.Linkify,
	))
	return &Renderer{
		styles: newStyles(theme),
		parser: md.Parser(),
		width:  width,
	}
}

// Render returns source as styled terminal text with trailing newlines
// removed. Code blocks are never reflowed.
func (r *Renderer) Render(source string) string {
	if source == "" {
		return ""
	}
	return r.render([]byte(source))
}

// Render is a convenience for New(theme, width).Render(source).
func Render(source string, width int, theme robbie.Theme) string {
	return New(theme, width).Render(source)
}
