package pretty

import (
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/text"
)

const (
	borderLeftRune   = '│'
	borderBottomRune = '─'
)

// cellStyle is the paint state of one terminal cell.
type cellStyle struct {
	fg, bg        text.Color
	bold, italic  bool
	underline     bool
	strikethrough bool
}

type cell struct {
	r rune
	// wide marks the trailing half of a double-width rune.
	wide  bool
	style cellStyle
}

// Canvas is an element.Canvas that paints onto a grid of terminal cells.
// It grows downwards as content is painted; its width is fixed.
type Canvas struct {
	width    int
	tabWidth int
	rows     [][]cell
}

var _ element.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas width cells wide.
func NewCanvas(width int) *Canvas {
	return &Canvas{width: max(width, 0), tabWidth: text.DefaultTabWidth}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows painted so far.
func (c *Canvas) Height() int { return len(c.rows) }

// PaintQuad fills the quad's background and draws its borders. Existing
// glyphs are kept, so a quad painted over text only recolors it.
func (c *Canvas) PaintQuad(q element.Quad) {
	x0, y0, x1, y1 := c.cellRect(q.Bounds)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	c.ensureRows(y1)

	if q.Background.IsSet() {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c.rows[y][x].style.bg = q.Background
			}
		}
	}
	if q.BorderLeft > 0 {
		for y := y0; y < y1; y++ {
			c.setBorder(x0, y, borderLeftRune, q.BorderColor)
		}
	}
	if q.BorderBottom > 0 {
		for x := x0; x < x1; x++ {
			c.setBorder(x, y1-1, borderBottomRune, q.BorderColor)
		}
	}
}

// PaintText writes every fragment of an arranged layout. Glyphs past the
// right edge are clipped.
func (c *Canvas) PaintText(layout text.Layout) {
	source := layout.Text()
	runs := layout.Runs()

	for _, frag := range layout.Fragments() {
		y := int(math.Floor(frag.Origin.Y))
		if y < 0 {
			continue
		}
		c.ensureRows(y + 1)

		x := int(math.Floor(frag.Origin.X))
		for offset, r := range source[frag.Start:frag.End] {
			style, _ := text.RunAt(runs, frag.Start+offset)
			switch r {
			case '\n', '\r':
				continue
			case '\t':
				for range c.tabWidth {
					c.setGlyph(x, y, ' ', style)
					x++
				}
				continue
			}

			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x+w > c.width {
				break
			}
			c.setGlyph(x, y, r, style)
			if w == 2 {
				c.rows[y][x+1] = cell{wide: true, style: c.rows[y][x].style}
			}
			x += w
		}
	}
}

// Render returns the painted rows joined by newlines. With color disabled
// the output is plain text and trailing blanks are trimmed.
func (c *Canvas) Render(colorEnabled bool) string {
	renderer := lipgloss.NewRenderer(io.Discard)
	if colorEnabled {
		renderer.SetColorProfile(termenv.TrueColor)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	lines := make([]string, len(c.rows))
	for y, row := range c.rows {
		lines[y] = c.renderRow(renderer, row, colorEnabled)
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) renderRow(renderer *lipgloss.Renderer, row []cell, colorEnabled bool) string {
	end := len(row)
	for end > 0 && isBlank(row[end-1], colorEnabled) {
		end--
	}

	var sb strings.Builder
	var segment strings.Builder
	var current cellStyle
	flush := func() {
		if segment.Len() == 0 {
			return
		}
		if colorEnabled {
			sb.WriteString(styleFor(renderer, current).Render(segment.String()))
		} else {
			sb.WriteString(segment.String())
		}
		segment.Reset()
	}

	for _, cl := range row[:end] {
		if cl.wide {
			continue
		}
		if cl.style != current {
			flush()
			current = cl.style
		}
		if cl.r == 0 {
			segment.WriteByte(' ')
		} else {
			segment.WriteRune(cl.r)
		}
	}
	flush()
	return sb.String()
}

func isBlank(cl cell, colorEnabled bool) bool {
	if cl.r != 0 && cl.r != ' ' {
		return false
	}
	return !colorEnabled || !cl.style.bg.IsSet()
}

func styleFor(renderer *lipgloss.Renderer, s cellStyle) lipgloss.Style {
	style := renderer.NewStyle()
	if s.fg.IsSet() {
		style = style.Foreground(lipgloss.Color(string(s.fg)))
	}
	if s.bg.IsSet() {
		style = style.Background(lipgloss.Color(string(s.bg)))
	}
	return style.
		Bold(s.bold).
		Italic(s.italic).
		Underline(s.underline).
		Strikethrough(s.strikethrough)
}

func (c *Canvas) setGlyph(x, y int, r rune, style text.TextStyle) {
	if x < 0 || x >= c.width {
		return
	}
	target := &c.rows[y][x]
	target.r = r
	target.wide = false
	target.style.fg = style.Color
	if style.Background.IsSet() {
		target.style.bg = style.Background
	}
	target.style.bold = style.Bold
	target.style.italic = style.Italic
	target.style.underline = style.Underline
	target.style.strikethrough = style.Strikethrough
}

func (c *Canvas) setBorder(x, y int, r rune, color text.Color) {
	if x < 0 || x >= c.width {
		return
	}
	target := &c.rows[y][x]
	target.r = r
	target.wide = false
	target.style.fg = color
}

func (c *Canvas) ensureRows(n int) {
	for len(c.rows) < n {
		c.rows = append(c.rows, make([]cell, c.width))
	}
}

// cellRect snaps b outwards to whole cells and clips it to the canvas width.
func (c *Canvas) cellRect(b text.Bounds) (int, int, int, int) {
	x0 := max(int(math.Floor(b.Left())), 0)
	y0 := max(int(math.Floor(b.Top())), 0)
	x1 := min(int(math.Ceil(b.Right())), c.width)
	y1 := max(int(math.Ceil(b.Bottom())), 0)
	return x0, y0, x1, y1
}
