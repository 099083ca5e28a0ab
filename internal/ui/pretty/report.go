package pretty

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

const (
	snippetWidth  = 40
	positionWidth = 8
	labelWidth    = 11
	indentUnit    = "  "
)

// EventFormatter writes an event stream as an indented outline, one event
// per line with its line:col position.
type EventFormatter struct {
	w      io.Writer
	styles *Styles
}

// NewEventFormatter creates a formatter writing to w.
func NewEventFormatter(w io.Writer, styles *Styles) *EventFormatter {
	return &EventFormatter{w: w, styles: styles}
}

// Format writes every event of doc.
func (f *EventFormatter) Format(doc *mdast.ParsedDocument) error {
	source := doc.Source()
	depth := 0

	for _, event := range doc.Events() {
		if event.Kind == mdast.EventEnd && depth > 0 {
			depth--
		}

		line, col := doc.LineAt(event.Range.StartOffset)
		position := mdast.Position{Line: line, Column: col}.String()

		var sb strings.Builder
		sb.WriteString(padding.String(f.styles.Dim.Render(position), positionWidth))
		sb.WriteString(strings.Repeat(indentUnit, depth))
		sb.WriteString(f.describe(event))
		sb.WriteByte(' ')
		sb.WriteString(f.styles.Range.Render(event.Range.String()))
		if snippet := f.snippet(event, source); snippet != "" {
			sb.WriteByte(' ')
			sb.WriteString(f.styles.Snippet.Render(snippet))
		}
		sb.WriteByte('\n')

		if _, err := io.WriteString(f.w, sb.String()); err != nil {
			return fmt.Errorf("write event: %w", err)
		}

		if event.Kind == mdast.EventStart {
			depth++
		}
	}
	return nil
}

func (f *EventFormatter) describe(event mdast.Event) string {
	switch event.Kind {
	case mdast.EventStart, mdast.EventEnd:
		return f.styles.Event.Render(event.Kind.String()) + "(" + f.styles.Tag.Render(event.Tag.String()) + ")"
	case mdast.EventTaskListMarker:
		return f.styles.Event.Render(event.Kind.String()) + "(" + strconv.FormatBool(event.Checked) + ")"
	default:
		return f.styles.Event.Render(event.Kind.String())
	}
}

func (f *EventFormatter) snippet(event mdast.Event, source string) string {
	switch event.Kind {
	case mdast.EventText, mdast.EventCode, mdast.EventHTML, mdast.EventInlineHTML:
		quoted := strconv.Quote(event.Range.Text(source))
		return truncate.StringWithTail(quoted, snippetWidth, "…")
	default:
		return ""
	}
}

// HitReport describes what a pointer press resolved to.
type HitReport struct {
	Point     text.Point
	Clicks    int
	Offset    int
	Exact     bool
	Selection mdast.SourceRange
	Selected  string
	Word      mdast.SourceRange
	Line      mdast.SourceRange
	Link      string
	Cursor    string
}

// FormatHit writes r as aligned label/value lines.
func FormatHit(w io.Writer, styles *Styles, r HitReport) error {
	exact := "inexact"
	if r.Exact {
		exact = "exact"
	}
	link := styles.Dim.Render("none")
	if r.Link != "" {
		link = styles.Link.Render(r.Link)
	}

	rows := [][2]string{
		{"point", fmt.Sprintf("%s (%d click(s))", r.Point, r.Clicks)},
		{"offset", fmt.Sprintf("%d %s", r.Offset, styles.Dim.Render(exact))},
		{"selection", styles.Range.Render(r.Selection.String()) + " " + styles.Snippet.Render(strconv.Quote(r.Selected))},
		{"word", styles.Range.Render(r.Word.String())},
		{"line", styles.Range.Render(r.Line.String())},
		{"link", link},
		{"cursor", r.Cursor},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(padding.String(styles.Label.Render(row[0]+":"), labelWidth))
		sb.WriteString(row[1])
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write hit report: %w", err)
	}
	return nil
}
