package goldmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdview/pkg/mdast"
)

// linkifier finds bare URLs, www. domains and e-mail addresses in plain text
// using goldmark's linkify inline parser.
type linkifier struct {
	inline parser.InlineParser
}

func newLinkifier() *linkifier {
	return &linkifier{inline: extension.NewLinkifyParser()}
}

// isCandidate reports whether the linkify parser would be tried at pos: at a
// line head or on one of its trigger characters.
func (l *linkifier) isCandidate(src []byte, pos int) bool {
	if pos == 0 || src[pos-1] == '\n' {
		return true
	}
	for _, c := range l.inline.Trigger() {
		if src[pos] == c {
			return true
		}
	}
	return false
}

// match tries to recognize a link starting at or just after pos. It returns
// the label range and destination, or ok=false.
func (l *linkifier) match(src []byte, pos int) (mdast.SourceRange, string, bool) {
	end := lineContentEnd(src, pos)
	if pos >= end {
		return mdast.SourceRange{}, "", false
	}

	// A fresh reader per attempt: the reader caches the peeked line.
	line := src[pos:end]
	reader := text.NewReader(line)
	node := l.inline.Parse(ast.NewParagraph(), reader, parser.NewContext())
	link, ok := node.(*ast.AutoLink)
	if !ok {
		return mdast.SourceRange{}, "", false
	}

	// The reader stops right after the label.
	_, seg := reader.Position()
	labelEnd := pos + seg.Start
	r := mdast.NewRange(labelEnd-len(link.Label(line)), labelEnd)
	return r, autoLinkURL(link, line), !r.IsEmpty()
}

// autoLinkURL returns the destination of an autolink, with a mailto: scheme
// for e-mail addresses.
func autoLinkURL(link *ast.AutoLink, src []byte) string {
	url := string(link.URL(src))
	if link.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
		return "mailto:" + url
	}
	return url
}

// linkEvents scans plain text for links. Everything else becomes Text.
func (l *linkifier) linkEvents(src []byte) []mdast.Event {
	var events []mdast.Event
	textStart := 0
	flush := func(end int) {
		if end > textStart {
			events = append(events, mdast.LeafEvent(mdast.EventText, mdast.NewRange(textStart, end)))
		}
	}

	for pos := 0; pos < len(src); {
		if src[pos] == '\n' || !l.isCandidate(src, pos) {
			pos++
			continue
		}
		r, url, ok := l.match(src, pos)
		if !ok {
			pos++
			continue
		}

		flush(r.StartOffset)
		tag := mdast.Link(url, "")
		events = append(events,
			mdast.StartEvent(r, tag),
			mdast.LeafEvent(mdast.EventText, r),
			mdast.EndEvent(r, tag),
		)
		textStart = r.EndOffset
		pos = r.EndOffset
	}
	flush(len(src))
	return events
}
