package markdown

import (
	"sort"
	"strings"

	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

// SourceMapping ties a rendered byte index to the source byte it came from.
// A line records one mapping at the start of every pushed text run; bytes in
// between correspond one to one.
type SourceMapping struct {
	RenderedIndex int
	SourceIndex   int
}

// RenderedLine is one shaped block of text and its mapping back to source.
type RenderedLine struct {
	layout    text.Layout
	mappings  []SourceMapping
	sourceEnd int
}

// NewRenderedLine builds a line. mappings must be non-empty and strictly
// increasing in both fields.
func NewRenderedLine(layout text.Layout, mappings []SourceMapping, sourceEnd int) RenderedLine {
	return RenderedLine{layout: layout, mappings: mappings, sourceEnd: sourceEnd}
}

// Layout returns the shaped text.
func (l *RenderedLine) Layout() text.Layout { return l.layout }

// Mappings returns the line's mapping table.
func (l *RenderedLine) Mappings() []SourceMapping { return l.mappings }

// SourceStart returns the source offset of the first rendered byte.
func (l *RenderedLine) SourceStart() int {
	if len(l.mappings) == 0 {
		return l.sourceEnd
	}
	return l.mappings[0].SourceIndex
}

// SourceEnd returns the source offset one past the last mapped byte.
func (l *RenderedLine) SourceEnd() int { return l.sourceEnd }

// SourceRange returns SourceStart..SourceEnd.
func (l *RenderedLine) SourceRange() mdast.SourceRange {
	return mdast.NewRange(l.SourceStart(), l.sourceEnd)
}

// RenderedIndexForSourceIndex maps a source offset into the line text.
// Offsets before the line clamp to its start; offsets inside source bytes
// that were collapsed, such as a soft break, clamp to the next run.
func (l *RenderedLine) RenderedIndexForSourceIndex(sourceIndex int) int {
	if len(l.mappings) == 0 {
		return 0
	}
	idx := sort.Search(len(l.mappings), func(i int) bool {
		return l.mappings[i].SourceIndex > sourceIndex
	}) - 1
	if idx < 0 {
		return l.mappings[0].RenderedIndex
	}

	m := l.mappings[idx]
	limit := len(l.layout.Text())
	if idx+1 < len(l.mappings) {
		limit = l.mappings[idx+1].RenderedIndex
	}
	return min(m.RenderedIndex+(sourceIndex-m.SourceIndex), limit)
}

// SourceIndexForRenderedIndex maps an index into the line text back to
// source.
func (l *RenderedLine) SourceIndexForRenderedIndex(renderedIndex int) int {
	if len(l.mappings) == 0 {
		return l.sourceEnd
	}
	idx := sort.Search(len(l.mappings), func(i int) bool {
		return l.mappings[i].RenderedIndex > renderedIndex
	}) - 1
	if idx < 0 {
		return l.mappings[0].SourceIndex
	}

	m := l.mappings[idx]
	limit := l.sourceEnd
	if idx+1 < len(l.mappings) {
		limit = l.mappings[idx+1].SourceIndex
	}
	return min(m.SourceIndex+(renderedIndex-m.RenderedIndex), limit)
}

// SourceIndexForPosition returns the source offset under p. exact is false
// when p lies outside the shaped text.
func (l *RenderedLine) SourceIndexForPosition(p text.Point) (int, bool) {
	idx, exact := l.layout.IndexForPosition(p)
	return l.SourceIndexForRenderedIndex(idx), exact
}

// RenderedLink is a hyperlink and the source it was written as.
type RenderedLink struct {
	SourceRange    mdast.SourceRange
	DestinationURL string
}

// RenderedText indexes the rendered lines of a document for geometry and
// source queries. It is built fresh by every layout pass and never mutated.
type RenderedText struct {
	lines []RenderedLine
	links []RenderedLink
}

// NewRenderedText builds an index over lines and links, both in source order.
func NewRenderedText(lines []RenderedLine, links []RenderedLink) *RenderedText {
	return &RenderedText{lines: lines, links: links}
}

// Lines returns the rendered lines.
func (t *RenderedText) Lines() []RenderedLine { return t.lines }

// Links returns the rendered links.
func (t *RenderedText) Links() []RenderedLink { return t.links }

// SourceIndexForPosition returns the source offset under p. When p falls
// between two lines or below the last one, exact is false and the offset is
// the end of the line above.
func (t *RenderedText) SourceIndexForPosition(p text.Point) (int, bool) {
	for idx := range t.lines {
		line := &t.lines[idx]
		if p.Y >= line.layout.Bounds().Bottom() {
			if idx+1 < len(t.lines) && p.Y < t.lines[idx+1].layout.Bounds().Top() {
				return line.sourceEnd, false
			}
			continue
		}
		return line.SourceIndexForPosition(p)
	}

	if len(t.lines) == 0 {
		return 0, false
	}
	return t.lines[len(t.lines)-1].sourceEnd, false
}

// PositionForSourceIndex returns the caret position and line height for a
// source offset. ok is false when the offset precedes the first line or its
// position cannot be resolved.
func (t *RenderedText) PositionForSourceIndex(sourceIndex int) (text.Point, float64, bool) {
	for idx := range t.lines {
		line := &t.lines[idx]
		if sourceIndex < line.SourceStart() {
			break
		}
		if sourceIndex > line.sourceEnd {
			continue
		}
		pos, ok := line.layout.PositionForIndex(line.RenderedIndexForSourceIndex(sourceIndex))
		if !ok {
			return text.Point{}, 0, false
		}
		return pos, line.layout.LineHeight(), true
	}
	return text.Point{}, 0, false
}

// SurroundingWordRange returns the source range of the space-delimited word
// around sourceIndex, or an empty range at sourceIndex when no line holds it.
func (t *RenderedText) SurroundingWordRange(sourceIndex int) mdast.SourceRange {
	for idx := range t.lines {
		line := &t.lines[idx]
		if sourceIndex > line.sourceEnd {
			continue
		}

		lineText := line.layout.Text()
		renderedStart := line.mappings[0].RenderedIndex
		inLine := line.RenderedIndexForSourceIndex(sourceIndex) - renderedStart
		inLine = min(max(inLine, 0), len(lineText))

		prevSpace := strings.LastIndexByte(lineText[:inLine], ' ') + 1
		nextSpace := len(lineText)
		if i := strings.IndexByte(lineText[inLine:], ' '); i >= 0 {
			nextSpace = inLine + i
		}

		return mdast.NewRange(
			line.SourceIndexForRenderedIndex(renderedStart+prevSpace),
			line.SourceIndexForRenderedIndex(renderedStart+nextSpace),
		)
	}
	return mdast.NewRange(sourceIndex, sourceIndex)
}

// SurroundingLineRange returns the source range of the rendered line holding
// sourceIndex, or an empty range at sourceIndex when there is none.
func (t *RenderedText) SurroundingLineRange(sourceIndex int) mdast.SourceRange {
	for idx := range t.lines {
		line := &t.lines[idx]
		if sourceIndex > line.sourceEnd {
			continue
		}
		return line.SourceRange()
	}
	return mdast.NewRange(sourceIndex, sourceIndex)
}

// TextForRange returns the rendered text of every line intersecting r, one
// line per row. This is what a copy puts on the clipboard.
func (t *RenderedText) TextForRange(r mdast.SourceRange) string {
	var parts []string

	for idx := range t.lines {
		line := &t.lines[idx]
		if r.StartOffset > line.sourceEnd {
			continue
		}
		lineStart := line.SourceStart()
		if r.EndOffset < lineStart {
			break
		}

		lineText := line.layout.Text()
		start := 0
		if r.StartOffset >= lineStart {
			start = line.RenderedIndexForSourceIndex(r.StartOffset)
		}
		end := line.RenderedIndexForSourceIndex(min(r.EndOffset, line.sourceEnd))
		end = min(end, len(lineText))
		start = min(start, end)

		parts = append(parts, lineText[start:end])
	}

	return strings.Join(parts, "\n")
}

// LinkForPosition returns the link under p, if any.
func (t *RenderedText) LinkForPosition(p text.Point) (RenderedLink, bool) {
	sourceIndex, exact := t.SourceIndexForPosition(p)
	if !exact {
		return RenderedLink{}, false
	}
	for _, link := range t.links {
		if link.SourceRange.Contains(sourceIndex) {
			return link, true
		}
	}
	return RenderedLink{}, false
}
