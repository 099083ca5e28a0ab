package goldmark

import (
	"bytes"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/mdast"
)

// emitter flattens a goldmark AST into mdast events.
//
// Goldmark records byte segments for text and for the lines of leaf blocks,
// but not for container markers, fences or inline delimiters. The emitter
// keeps a cursor at the end of the last consumed source byte and recovers
// those ranges by scanning forward from it. Container Start events are
// appended with a provisional range and patched, together with their End
// event, when the container is left.
type emitter struct {
	src    []byte
	events []mdast.Event
	cursor int
	open   []openContainer
	logger *log.Logger
}

type openContainer struct {
	index int
	start int
	// fence of a fenced code block.
	fenceChar byte
	fenceLen  int
	// delimiter length of an inline container.
	delim int
}

func newEmitter(src []byte, logger *log.Logger) *emitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &emitter{src: src, logger: logger}
}

// emit walks the document and returns the event stream.
func (e *emitter) emit(doc ast.Node) []mdast.Event {
	//nolint:errcheck,revive // the walker callback never returns an error
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			return e.enter(n), nil
		}
		e.leave(n)
		return ast.WalkContinue, nil
	})
	return e.events
}

func (e *emitter) advance(pos int) {
	e.cursor = max(e.cursor, clampOffset(e.src, pos))
}

func (e *emitter) leaf(kind mdast.EventKind, start, end int) {
	start = clampOffset(e.src, start)
	end = max(clampOffset(e.src, end), start)
	e.events = append(e.events, mdast.LeafEvent(kind, mdast.NewRange(start, end)))
	e.advance(end)
}

// push appends a provisional Start event for tag beginning at start.
func (e *emitter) push(tag mdast.Tag, start int) *openContainer {
	start = clampOffset(e.src, start)
	e.open = append(e.open, openContainer{index: len(e.events), start: start})
	e.events = append(e.events, mdast.StartEvent(mdast.NewRange(start, start), tag))
	return &e.open[len(e.open)-1]
}

// pop closes the innermost container at end, patching its Start event.
func (e *emitter) pop(end int) {
	top := e.open[len(e.open)-1]
	e.open = e.open[:len(e.open)-1]
	e.closeAt(top, top.start, end)
}

func (e *emitter) closeAt(top openContainer, start, end int) {
	start = clampOffset(e.src, start)
	end = max(clampOffset(e.src, end), start)
	r := mdast.NewRange(start, end)
	e.events[top.index].Range = r
	e.events = append(e.events, mdast.EndEvent(r, e.events[top.index].Tag))
	e.advance(end)
}

// childStart returns the start of the first event emitted after the
// container's Start event, or fallback if it has none.
func (e *emitter) childStart(top openContainer, fallback int) int {
	if top.index+1 < len(e.events) {
		return e.events[top.index+1].Range.StartOffset
	}
	return fallback
}

//nolint:cyclop,funlen // one case per node kind
func (e *emitter) enter(n ast.Node) ast.WalkStatus {
	switch node := n.(type) {
	case *ast.Document:

	case *ast.Paragraph:
		start := e.cursor
		if lineStart, _, ok := blockLines(node); ok {
			start = lineStart
		}
		e.push(mdast.Paragraph(), start)

	case *ast.TextBlock:

	case *ast.Heading:
		start := skipPrefix(e.src, e.cursor)
		if lineStart, _, ok := blockLines(node); ok {
			start = headingStart(e.src, lineStart)
		}
		e.push(mdast.Heading(node.Level), start)
		e.advance(start)

	case *ast.Blockquote:
		start := scanBlockQuote(e.src, e.cursor)
		if start < 0 {
			start = e.cursor
		}
		e.push(mdast.BlockQuote(), start)
		e.advance(start + 1)

	case *ast.List:
		tag := mdast.BulletList()
		if node.IsOrdered() {
			tag = mdast.OrderedList(node.Start)
		}
		start, _ := scanListMarker(e.src, e.cursor)
		if start < 0 {
			start = e.cursor
		}
		e.push(tag, start)

	case *ast.ListItem:
		start, markerLen := scanListMarker(e.src, e.cursor)
		if start < 0 {
			start, markerLen = e.cursor, 0
		}
		e.push(mdast.Item(), start)
		e.advance(start + markerLen)

	case *ast.FencedCodeBlock:
		e.enterFencedCodeBlock(node)
		return ast.WalkSkipChildren

	case *ast.CodeBlock:
		start := e.cursor
		if lineStart, _, ok := blockLines(node); ok {
			start = lineStart
		}
		e.push(mdast.IndentedCodeBlock(), start)
		e.lines(mdast.EventText, node.Lines())
		e.pop(e.cursor)
		return ast.WalkSkipChildren

	case *ast.HTMLBlock:
		start := e.cursor
		if lineStart, _, ok := blockLines(node); ok {
			start = lineStart
		}
		e.push(mdast.HTMLBlock(), start)
		e.lines(mdast.EventHTML, node.Lines())
		if node.HasClosure() {
			e.leaf(mdast.EventHTML, node.ClosureLine.Start, node.ClosureLine.Stop)
		}
		e.pop(e.cursor)
		return ast.WalkSkipChildren

	case *ast.ThematicBreak:
		start, end := scanRule(e.src, e.cursor)
		if start < 0 {
			start, end = e.cursor, e.cursor
		}
		e.leaf(mdast.EventRule, start, end)

	case *ast.Text:
		e.text(node)

	case *ast.String:
		e.synthesized(node)

	case *ast.CodeSpan:
		e.codeSpan(node)
		return ast.WalkSkipChildren

	case *ast.Emphasis:
		tag := mdast.Emphasis()
		if node.Level >= 2 {
			tag = mdast.Strong()
		}
		e.push(tag, e.cursor).delim = node.Level

	case *east.Strikethrough:
		e.push(mdast.Strikethrough(), e.cursor)

	case *ast.Link:
		e.push(mdast.Link(string(node.Destination), string(node.Title)), e.cursor)

	case *ast.Image:
		e.push(mdast.Image(string(node.Destination), string(node.Title)), e.cursor)

	case *ast.AutoLink:
		e.autoLink(node)
		return ast.WalkSkipChildren

	case *ast.RawHTML:
		segs := node.Segments
		if segs != nil && segs.Len() > 0 {
			e.leaf(mdast.EventInlineHTML, segs.At(0).Start, segs.At(segs.Len()-1).Stop)
		}
		return ast.WalkSkipChildren

	case *east.TaskCheckBox:
		start := e.cursor
		if idx := bytes.IndexByte(e.src[e.cursor:], '['); idx >= 0 {
			start = e.cursor + idx
		}
		e.events = append(e.events, mdast.Event{
			Kind:    mdast.EventTaskListMarker,
			Range:   mdast.NewRange(start, clampOffset(e.src, start+3)),
			Checked: node.IsChecked,
		})
		e.advance(start + 3)

	case *east.Table:
		e.push(mdast.Tag{Kind: mdast.TagTable}, skipPrefix(e.src, e.cursor))

	case *east.TableHeader:
		e.push(mdast.Tag{Kind: mdast.TagTableHead}, skipPrefix(e.src, e.cursor))

	case *east.TableRow:
		e.push(mdast.Tag{Kind: mdast.TagTableRow}, skipPrefix(e.src, e.cursor))

	case *east.TableCell:
		e.push(mdast.Tag{Kind: mdast.TagTableCell}, e.cursor)

	default:
		e.logger.Warn("skipping unsupported markdown node",
			logging.FieldNode, n.Kind().String())
		return ast.WalkSkipChildren
	}

	return ast.WalkContinue
}

//nolint:cyclop // one case per container kind
func (e *emitter) leave(n ast.Node) {
	switch node := n.(type) {
	case *ast.Paragraph:
		end := e.cursor
		if _, lastStop, ok := blockLines(node); ok {
			end = lineEnd(e.src, max(lastStop, e.cursor))
		}
		e.pop(end)

	case *ast.TextBlock:
		if _, lastStop, ok := blockLines(node); ok {
			e.advance(lineEnd(e.src, max(lastStop, e.cursor)))
		}

	case *ast.Heading:
		top := e.open[len(e.open)-1]
		end := max(e.cursor, lineEndAt(e.src, top.start))
		if _, lastStop, ok := blockLines(node); ok {
			end = lineEnd(e.src, max(lastStop, e.cursor))
			if top.start < len(e.src) && e.src[top.start] != '#' {
				if underline := setextUnderlineEnd(e.src, lastStop); underline > 0 {
					end = underline
				}
			}
		}
		e.pop(end)

	case *ast.Blockquote, *ast.List, *ast.ListItem:
		top := e.open[len(e.open)-1]
		e.pop(max(e.cursor, lineEndAt(e.src, top.start)))

	case *ast.Emphasis:
		top := e.open[len(e.open)-1]
		e.open = e.open[:len(e.open)-1]
		start := e.childStart(top, e.cursor) - top.delim
		e.closeAt(top, start, e.cursor+top.delim)

	case *east.Strikethrough:
		top := e.open[len(e.open)-1]
		e.open = e.open[:len(e.open)-1]
		first := e.childStart(top, e.cursor)
		delim := runBefore(e.src, first, '~', 2)
		e.closeAt(top, first-delim, e.cursor+runAt(e.src, e.cursor, '~', delim))

	case *ast.Link, *ast.Image:
		top := e.open[len(e.open)-1]
		e.open = e.open[:len(e.open)-1]
		start := e.childStart(top, e.cursor) - 1
		if _, ok := node.(*ast.Image); ok {
			start--
		}
		if top.index+1 == len(e.events) {
			if idx := bytes.IndexByte(e.src[e.cursor:], '['); idx >= 0 {
				start = e.cursor + idx
				if _, ok := node.(*ast.Image); ok && start > 0 {
					start--
				}
			}
		}
		e.closeAt(top, start, linkTail(e.src, e.cursor))

	case *east.Table, *east.TableRow:
		top := e.open[len(e.open)-1]
		e.pop(max(lineEnd(e.src, e.cursor), lineEndAt(e.src, top.start)))

	case *east.TableHeader:
		top := e.open[len(e.open)-1]
		e.pop(max(lineEnd(e.src, e.cursor), lineEndAt(e.src, top.start)))
		// Step over the delimiter row, which has no node of its own.
		e.advance(lineEndAt(e.src, e.cursor))

	case *east.TableCell:
		top := e.open[len(e.open)-1]
		e.open = e.open[:len(e.open)-1]
		e.closeAt(top, e.childStart(top, e.cursor), e.cursor)
	}
}

func (e *emitter) lines(kind mdast.EventKind, lines *text.Segments) {
	if lines == nil {
		return
	}
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Stop > seg.Start {
			e.leaf(kind, seg.Start, seg.Stop)
		}
	}
}

func (e *emitter) enterFencedCodeBlock(node *ast.FencedCodeBlock) {
	start, char, fenceLen := scanOpeningFence(e.src, e.cursor)
	if start < 0 {
		start = e.cursor
		if lineStart, _, ok := blockLines(node); ok {
			start = lineStart
		}
	}
	language := string(node.Language(e.src))
	top := e.push(mdast.FencedCodeBlock(language), start)
	top.fenceChar, top.fenceLen = char, fenceLen
	fence := *top

	e.advance(lineEndAt(e.src, start))
	e.lines(mdast.EventText, node.Lines())

	end := e.cursor
	if fence.fenceLen > 0 {
		if closing := closingFenceEnd(e.src, e.cursor, fence.fenceChar, fence.fenceLen); closing > 0 {
			end = closing
		}
	}
	e.pop(end)
}

func (e *emitter) text(node *ast.Text) {
	seg := node.Segment
	if seg.Stop > seg.Start {
		e.leaf(mdast.EventText, seg.Start, seg.Stop)
	}

	switch {
	case node.HardLineBreak():
		from := max(seg.Stop, e.cursor)
		e.leaf(mdast.EventHardBreak, from, lineEnd(e.src, from))
	case node.SoftLineBreak():
		from := max(seg.Stop, e.cursor)
		e.leaf(mdast.EventSoftBreak, from, lineEnd(e.src, from))
	}
}

func (e *emitter) synthesized(node *ast.String) {
	if len(node.Value) == 0 {
		return
	}
	idx := bytes.Index(e.src[e.cursor:], node.Value)
	if idx < 0 {
		e.logger.Warn("dropping synthesized text with no source position",
			logging.FieldBytes, len(node.Value))
		return
	}
	start := e.cursor + idx
	e.leaf(mdast.EventText, start, start+len(node.Value))
}

func (e *emitter) codeSpan(node *ast.CodeSpan) {
	start, end := -1, -1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		if start < 0 {
			start = t.Segment.Start
		}
		end = max(end, t.Segment.Stop)
	}
	if start < 0 {
		return
	}

	// A single space padding the content is stripped by the parser.
	ticksEnd := start
	if runBefore(e.src, ticksEnd, '`', 1) == 0 && ticksEnd > 0 && e.src[ticksEnd-1] == ' ' {
		ticksEnd--
	}
	ticks := max(runBefore(e.src, ticksEnd, '`', len(e.src)), 1)

	e.leaf(mdast.EventCode, start, end)
	closing := bytes.Repeat([]byte{'`'}, ticks)
	if idx := bytes.Index(e.src[end:], closing); idx >= 0 {
		e.advance(end + idx + len(closing))
	}
}

func (e *emitter) autoLink(node *ast.AutoLink) {
	label := node.Label(e.src)
	idx := bytes.Index(e.src[e.cursor:], label)
	if len(label) == 0 || idx < 0 {
		e.logger.Warn("dropping autolink with no source position",
			logging.FieldBytes, len(label))
		return
	}

	textStart := e.cursor + idx
	textEnd := textStart + len(label)
	start, end := textStart, textEnd
	if start > 0 && e.src[start-1] == '<' && end < len(e.src) && e.src[end] == '>' {
		start--
		end++
	}

	r := mdast.NewRange(start, end)
	tag := mdast.Link(autoLinkURL(node, e.src), "")
	e.events = append(e.events,
		mdast.StartEvent(r, tag),
		mdast.LeafEvent(mdast.EventText, mdast.NewRange(textStart, textEnd)),
		mdast.EndEvent(r, tag),
	)
	e.advance(end)
}
