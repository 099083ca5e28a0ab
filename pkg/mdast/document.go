// Package mdast defines the flat Markdown event model shared by the parser and
// the renderer:
// - Event and Tag: a pre/post-order stream of containers and leaves with byte ranges
// - ParsedDocument: an immutable snapshot pairing a source with its events
// - LineIndex: offset to line/column conversion for event listings
package mdast

import (
	"errors"
	"fmt"
)

// ParsedDocument is an immutable snapshot of a source string and the events
// parsed from it. It is replaced wholesale on re-parse and may be shared
// between goroutines. The zero value and a nil pointer are empty documents.
type ParsedDocument struct {
	source string
	events []Event
	lines  LineIndex
}

// NewParsedDocument creates a snapshot. The events slice is owned by the
// document afterwards and must not be modified by the caller.
func NewParsedDocument(source string, events []Event) *ParsedDocument {
	return &ParsedDocument{
		source: source,
		events: events,
		lines:  NewLineIndex(source),
	}
}

// Source returns the text the events were parsed from.
func (d *ParsedDocument) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Events returns the parsed event stream. Callers must not modify it.
func (d *ParsedDocument) Events() []Event {
	if d == nil {
		return nil
	}
	return d.events
}

// IsEmpty reports whether the document has no events.
func (d *ParsedDocument) IsEmpty() bool {
	return len(d.Events()) == 0
}

// End returns the end offset of the last event, or 0 for an empty document.
func (d *ParsedDocument) End() int {
	events := d.Events()
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Range.EndOffset
}

// Text returns the source text covered by r.
func (d *ParsedDocument) Text(r SourceRange) string {
	return r.Text(d.Source())
}

// LineAt converts a byte offset to 1-based line and column numbers.
func (d *ParsedDocument) LineAt(offset int) (int, int) {
	if d == nil {
		return 0, 0
	}
	return d.lines.LineAt(offset)
}

// ErrUnbalanced is returned by ValidateEvents for streams whose Start and End
// events do not pair up.
var ErrUnbalanced = errors.New("unbalanced event stream")

// ValidateEvents checks that a stream is well formed:
// - every Start has a matching End of the same tag kind, nested without crossing;
// - every range lies inside [0, sourceLen] with start <= end.
func ValidateEvents(events []Event, sourceLen int) error {
	var open []TagKind

	for idx, event := range events {
		r := event.Range
		if r.StartOffset < 0 || r.EndOffset > sourceLen || r.StartOffset > r.EndOffset {
			return fmt.Errorf("event %d (%s): range outside source of %d bytes", idx, event, sourceLen)
		}

		switch event.Kind {
		case EventStart:
			open = append(open, event.Tag.Kind)
		case EventEnd:
			if len(open) == 0 {
				return fmt.Errorf("event %d (%s): %w: end without start", idx, event, ErrUnbalanced)
			}
			top := open[len(open)-1]
			if top != event.Tag.Kind {
				return fmt.Errorf("event %d (%s): %w: closes %s", idx, event, ErrUnbalanced, top)
			}
			open = open[:len(open)-1]
		}
	}

	if len(open) > 0 {
		return fmt.Errorf("%w: %d unclosed tags", ErrUnbalanced, len(open))
	}

	return nil
}
