package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/robbie"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	codeGutter  = "│ "
	quoteGutter = "▎ "
	minWidth    = 10
)

type styles struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	strike    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
	code      lipgloss.Style
	label     lipgloss.Style
}

func newStyles(theme robbie.Theme) styles {
	return styles{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		strike:    lipgloss.NewStyle().Strikethrough(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
		code:      lipgloss.NewStyle().Background(ansiColor(theme.CodeBg)).Foreground(ansiColor(theme.Accent)),
		label:     lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Italic(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *Renderer) render(source []byte) string {
	doc := r.parser.Parse(text.NewReader(source))
	var buf bytes.Buffer
	r.walkBlocks(doc, source, r.width, &buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		// lipgloss pads wrapped lines out to the full width.
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) walkBlocks(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
	}
}

// separate writes the blank line between top-level blocks.
func separate(n ast.Node, buf *bytes.Buffer) {
	if n.NextSibling() != nil {
		buf.WriteString("\n")
	}
}

func (r *Renderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		buf.WriteString(wrap(r.inline(n, source), width))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.Heading:
		buf.WriteString(wrap(r.styles.heading.Render(r.inline(n, source)), width))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.FencedCodeBlock:
		lang := string(n.Language(source))
		if lang != "" {
			buf.WriteString(r.styles.label.Render(lang))
			buf.WriteString("\n")
		}
		r.writeCode(codeLines(n.Lines(), source), lang, buf)
		separate(n, buf)

	case *ast.CodeBlock:
		r.writeCode(codeLines(n.Lines(), source), "", buf)
		separate(n, buf)

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.walkBlocks(n, source, max(width-ansi.StringWidth(quoteGutter), minWidth), &inner)
		gutter := r.styles.muted.Render(quoteGutter)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(gutter + line + "\n")
		}
		separate(n, buf)

	case *ast.List:
		r.renderList(n, source, width, buf, 0)
		separate(n, buf)

	case *extast.Table:
		r.renderTable(n, source, buf)
		separate(n, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.styles.muted.Render(strings.Repeat("─", min(width, 40))))
		buf.WriteString("\n")
		separate(n, buf)

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(source))
		}

	default:
		r.walkBlocks(node, source, width, buf)
	}
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func codeLines(segs *text.Segments, source []byte) []string {
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return lines
}

// writeCode prints code lines behind a gutter, syntax highlighted when the
// language is known.
func (r *Renderer) writeCode(lines []string, lang string, buf *bytes.Buffer) {
	if hl := highlight(strings.Join(lines, "\n")+"\n", lang); len(hl) == len(lines) {
		lines = hl
	}
	gutter := r.styles.muted.Render(codeGutter)
	for _, line := range lines {
		buf.WriteString(gutter + line + "\n")
	}
}

func (r *Renderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", depth)
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				if content.Len() > 0 {
					content.WriteString("\n")
				}
				content.WriteString(r.inline(in, source))
			case *ast.List:
				if content.Len() > 0 {
					writeItem(buf, indent, marker, content.String(), width)
					content.Reset()
				}
				r.renderList(in, source, width, buf, depth+1)
				marker = strings.Repeat(" ", ansi.StringWidth(marker))
			default:
				r.renderBlock(ic, source, width, &content)
			}
		}
		if content.Len() > 0 {
			writeItem(buf, indent, marker, content.String(), width)
		}
	}
}

// writeItem writes a list item, indenting continuation lines under the
// first character after the marker.
func writeItem(buf *bytes.Buffer, indent, marker, content string, width int) {
	prefix := indent + marker
	pad := strings.Repeat(" ", ansi.StringWidth(prefix))
	wrapped := wrap(strings.TrimRight(content, "\n"), max(width-len(pad), minWidth))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(pad + line + "\n")
	}
}

func (r *Renderer) renderTable(table *extast.Table, source []byte, buf *bytes.Buffer) {
	var rows [][]string
	header := -1
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*extast.TableHeader); ok {
			header = len(rows)
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.inline(cell, source))
		}
		rows = append(rows, cells)
	}

	var widths []int
	for _, cells := range rows {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.StringWidth(c))
		}
	}

	sep := r.styles.muted.Render(" │ ")
	for i, cells := range rows {
		padded := make([]string, len(widths))
		for j := range widths {
			var c string
			if j < len(cells) {
				c = cells[j]
			}
			fill := strings.Repeat(" ", widths[j]-ansi.StringWidth(c))
			if j < len(table.Alignments) && table.Alignments[j] == extast.AlignRight {
				padded[j] = fill + c
			} else {
				padded[j] = c + fill
			}
		}
		line := strings.Join(padded, sep)
		if i == header {
			line = r.styles.bold.Render(line)
		}
		buf.WriteString(strings.TrimRight(line, " ") + "\n")
		if i == header {
			rules := make([]string, len(widths))
			for j, w := range widths {
				rules[j] = strings.Repeat("─", w)
			}
			buf.WriteString(r.styles.muted.Render(strings.Join(rules, "─┼─")) + "\n")
		}
	}
}

// inline collects the styled text of a node's inline children.
func (r *Renderer) inline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *Renderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		} else if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.styles.italic.Render(inner))
		} else {
			buf.WriteString(r.styles.bold.Render(inner))
		}

	case *extast.Strikethrough:
		buf.WriteString(r.styles.strike.Render(r.inline(n, source)))

	case *extast.TaskCheckBox:
		if n.IsChecked {
			buf.WriteString("[x] ")
		} else {
			buf.WriteString("[ ] ")
		}

	case *ast.CodeSpan:
		buf.WriteString(r.styles.code.Render(r.inline(n, source)))

	case *ast.Link:
		buf.WriteString(r.styles.underline.Render(r.inline(n, source)))
		buf.WriteString(" ")
		buf.WriteString(r.styles.muted.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		buf.WriteString(r.styles.underline.Render(string(n.URL(source))))

	case *ast.Image:
		buf.WriteString(r.styles.underline.Render(r.inline(n, source)))
		buf.WriteString(" ")
		buf.WriteString(r.styles.muted.Render("(" + string(n.Destination) + ")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}
