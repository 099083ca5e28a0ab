package text

import (
	"math"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is the number of cells a tab occupies.
const DefaultTabWidth = 4

// MonoShaper lays text out on a grid of fixed-width cells, as a terminal does.
// Wide runes take two cells.
type MonoShaper struct {
	TabWidth int
}

// NewMonoShaper creates a MonoShaper with the default tab width.
func NewMonoShaper() *MonoShaper {
	return &MonoShaper{TabWidth: DefaultTabWidth}
}

// Shape implements Shaper.
//
//nolint:ireturn // Shaper returns the Layout interface
func (s *MonoShaper) Shape(text string, runs []TextRun) Layout {
	lineHeight := 1.0
	if len(runs) > 0 && runs[0].Style.LineHeight > 0 {
		lineHeight = math.Ceil(runs[0].Style.LineHeight)
	}
	tabWidth := s.TabWidth
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return &MonoLayout{
		text:       text,
		runs:       runs,
		lineHeight: lineHeight,
		tabWidth:   tabWidth,
		width:      math.Inf(1),
	}
}

// EmWidth implements Shaper. Every narrow glyph is one cell wide.
func (s *MonoShaper) EmWidth(TextStyle) float64 {
	return 1
}

// MonoLayout is the Layout produced by MonoShaper.
type MonoLayout struct {
	text       string
	runs       []TextRun
	lineHeight float64
	tabWidth   int

	origin    Point
	width     float64
	fragments []Fragment
}

// Text implements Layout.
func (l *MonoLayout) Text() string { return l.text }

// Runs implements Layout.
func (l *MonoLayout) Runs() []TextRun { return l.runs }

// LineHeight implements Layout.
func (l *MonoLayout) LineHeight() float64 { return l.lineHeight }

// Measure implements Layout.
func (l *MonoLayout) Measure(maxWidth float64) Size {
	fragments := l.wrap(Point{}, maxWidth)
	widest := 0.0
	for _, frag := range fragments {
		widest = max(widest, frag.Width)
	}
	return Size{Width: widest, Height: float64(len(fragments)) * l.lineHeight}
}

// Arrange implements Layout.
func (l *MonoLayout) Arrange(origin Point, width float64) Size {
	l.origin = origin
	l.width = width
	l.fragments = l.wrap(origin, width)
	return l.Bounds().Size
}

// Bounds implements Layout. An unarranged layout sits at the origin and is as
// wide as its widest line.
func (l *MonoLayout) Bounds() Bounds {
	fragments := l.Fragments()
	width := l.width
	if math.IsInf(width, 1) {
		width = 0
		for _, frag := range fragments {
			width = max(width, frag.Width)
		}
	}
	return Bounds{
		Origin: l.origin,
		Size:   Size{Width: width, Height: float64(len(fragments)) * l.lineHeight},
	}
}

// Fragments implements Layout.
func (l *MonoLayout) Fragments() []Fragment {
	if l.fragments == nil {
		l.fragments = l.wrap(l.origin, l.width)
	}
	return l.fragments
}

// IndexForPosition implements Layout.
func (l *MonoLayout) IndexForPosition(p Point) (int, bool) {
	fragments := l.Fragments()
	for idx, frag := range fragments {
		rowBottom := frag.Origin.Y + l.lineHeight
		if p.Y >= rowBottom {
			continue
		}
		if p.Y < frag.Origin.Y || p.X < frag.Origin.X {
			return frag.Start, false
		}

		x := frag.Origin.X
		for offset, r := range l.text[frag.Start:frag.End] {
			w := l.cellWidth(r)
			if p.X < x+w {
				return frag.Start + offset, true
			}
			x += w
		}

		// Past the end of a wrapped line the caret belongs before the wrap.
		if idx+1 < len(fragments) && fragments[idx+1].Start == frag.End {
			_, size := utf8.DecodeLastRuneInString(l.text[frag.Start:frag.End])
			return frag.End - size, false
		}
		return frag.End, false
	}
	return len(l.text), false
}

// PositionForIndex implements Layout.
func (l *MonoLayout) PositionForIndex(index int) (Point, bool) {
	if index < 0 || index > len(l.text) {
		return Point{}, false
	}

	fragments := l.Fragments()
	for idx, frag := range fragments {
		last := idx == len(fragments)-1
		if index < frag.Start {
			continue
		}
		if index < frag.End || (index == frag.End && (last || fragments[idx+1].Start > frag.End)) {
			x := frag.Origin.X + l.textWidth(l.text[frag.Start:index])
			return Point{X: x, Y: frag.Origin.Y}, true
		}
	}
	return Point{}, false
}

func (l *MonoLayout) cellWidth(r rune) float64 {
	if r == '\t' {
		return float64(l.tabWidth)
	}
	return float64(runewidth.RuneWidth(r))
}

func (l *MonoLayout) textWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += l.cellWidth(r)
	}
	return total
}

// wrap breaks the text into fragments no wider than maxWidth, preferring to
// break after a space. A single word wider than maxWidth is broken mid-word.
func (l *MonoLayout) wrap(origin Point, maxWidth float64) []Fragment {
	var fragments []Fragment
	emit := func(start, end int, width float64) {
		fragments = append(fragments, Fragment{
			Start:  start,
			End:    end,
			Origin: Point{X: origin.X, Y: origin.Y + float64(len(fragments))*l.lineHeight},
			Width:  width,
		})
	}

	col := 0.0
	fragStart := 0
	lastBreak := -1
	colAtBreak := 0.0

	for idx, r := range l.text {
		if r == '\n' {
			emit(fragStart, idx, col)
			fragStart = idx + 1
			col = 0
			lastBreak = -1
			continue
		}

		w := l.cellWidth(r)
		if col+w > maxWidth && col > 0 && r != ' ' {
			if lastBreak > fragStart {
				emit(fragStart, lastBreak, colAtBreak)
				col -= colAtBreak
				fragStart = lastBreak
			} else {
				emit(fragStart, idx, col)
				fragStart = idx
				col = 0
			}
			lastBreak = -1
		}

		col += w
		if r == ' ' {
			lastBreak = idx + 1
			colAtBreak = col
		}
	}
	emit(fragStart, len(l.text), col)

	return fragments
}
