package mdast

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind classifies a parser event.
type EventKind uint8

// Event kinds. Start and End carry a Tag; the rest are leaves.
const (
	EventStart EventKind = iota + 1
	EventEnd
	EventText
	EventCode
	EventHTML
	EventInlineHTML
	EventRule
	EventSoftBreak
	EventHardBreak
	EventTaskListMarker
)

var eventKindNames = map[EventKind]string{
	EventStart:          "Start",
	EventEnd:            "End",
	EventText:           "Text",
	EventCode:           "Code",
	EventHTML:           "Html",
	EventInlineHTML:     "InlineHtml",
	EventRule:           "Rule",
	EventSoftBreak:      "SoftBreak",
	EventHardBreak:      "HardBreak",
	EventTaskListMarker: "TaskListMarker",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// TagKind classifies a container tag.
type TagKind uint8

// Tag kinds.
const (
	TagParagraph TagKind = iota + 1
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagHTMLBlock
	TagList
	TagItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
)

var tagKindNames = map[TagKind]string{
	TagParagraph:     "Paragraph",
	TagHeading:       "Heading",
	TagBlockQuote:    "BlockQuote",
	TagCodeBlock:     "CodeBlock",
	TagHTMLBlock:     "HtmlBlock",
	TagList:          "List",
	TagItem:          "Item",
	TagEmphasis:      "Emphasis",
	TagStrong:        "Strong",
	TagStrikethrough: "Strikethrough",
	TagLink:          "Link",
	TagImage:         "Image",
	TagTable:         "Table",
	TagTableHead:     "TableHead",
	TagTableRow:      "TableRow",
	TagTableCell:     "TableCell",
}

func (k TagKind) String() string {
	if name, ok := tagKindNames[k]; ok {
		return name
	}
	return "TagKind(" + strconv.Itoa(int(k)) + ")"
}

// IsBlock reports whether the tag opens a block-level container.
func (k TagKind) IsBlock() bool {
	switch k {
	case TagParagraph, TagHeading, TagBlockQuote, TagCodeBlock, TagHTMLBlock,
		TagList, TagItem, TagTable, TagTableHead, TagTableRow, TagTableCell:
		return true
	default:
		return false
	}
}

// CodeBlockKind distinguishes indented from fenced code blocks.
type CodeBlockKind uint8

// Code block kinds.
const (
	CodeBlockIndented CodeBlockKind = iota
	CodeBlockFenced
)

// Tag describes a container opened by a Start event and closed by the matching End event.
// Only the fields relevant to Kind are populated.
type Tag struct {
	Kind TagKind

	// Level is the heading level, 1 through 6.
	Level int

	// CodeBlock and Language describe a code block. Language is the first
	// word of a fence's info string and may be empty.
	CodeBlock CodeBlockKind
	Language  string

	// Ordered lists number their items starting at ListStart.
	Ordered   bool
	ListStart int

	// DestURL and Title belong to links and images.
	DestURL string
	Title   string
}

// Paragraph returns a paragraph tag.
func Paragraph() Tag { return Tag{Kind: TagParagraph} }

// Heading returns a heading tag of the given level.
func Heading(level int) Tag { return Tag{Kind: TagHeading, Level: level} }

// BlockQuote returns a block quote tag.
func BlockQuote() Tag { return Tag{Kind: TagBlockQuote} }

// IndentedCodeBlock returns a tag for an indented code block.
func IndentedCodeBlock() Tag {
	return Tag{Kind: TagCodeBlock, CodeBlock: CodeBlockIndented}
}

// FencedCodeBlock returns a tag for a fenced code block with the given language.
func FencedCodeBlock(language string) Tag {
	return Tag{Kind: TagCodeBlock, CodeBlock: CodeBlockFenced, Language: language}
}

// HTMLBlock returns an HTML block tag.
func HTMLBlock() Tag { return Tag{Kind: TagHTMLBlock} }

// BulletList returns an unordered list tag.
func BulletList() Tag { return Tag{Kind: TagList} }

// OrderedList returns an ordered list tag whose first item is numbered start.
func OrderedList(start int) Tag {
	return Tag{Kind: TagList, Ordered: true, ListStart: start}
}

// Item returns a list item tag.
func Item() Tag { return Tag{Kind: TagItem} }

// Emphasis returns an emphasis tag.
func Emphasis() Tag { return Tag{Kind: TagEmphasis} }

// Strong returns a strong emphasis tag.
func Strong() Tag { return Tag{Kind: TagStrong} }

// Strikethrough returns a strikethrough tag.
func Strikethrough() Tag { return Tag{Kind: TagStrikethrough} }

// Link returns a link tag.
func Link(dest, title string) Tag {
	return Tag{Kind: TagLink, DestURL: dest, Title: title}
}

// Image returns an image tag.
func Image(dest, title string) Tag {
	return Tag{Kind: TagImage, DestURL: dest, Title: title}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagHeading:
		return fmt.Sprintf("Heading(%d)", t.Level)
	case TagCodeBlock:
		if t.CodeBlock == CodeBlockFenced {
			return fmt.Sprintf("CodeBlock(Fenced %q)", t.Language)
		}
		return "CodeBlock(Indented)"
	case TagList:
		if t.Ordered {
			return fmt.Sprintf("List(%d)", t.ListStart)
		}
		return "List(None)"
	case TagLink, TagImage:
		return fmt.Sprintf("%s(%q)", t.Kind, t.DestURL)
	default:
		return t.Kind.String()
	}
}

// Event is one element of the flat stream a parser produces. Every Start has
// exactly one matching End later in the stream, and the pairs nest without
// crossing.
type Event struct {
	Kind  EventKind
	Range SourceRange

	// Tag is set for Start and End events.
	Tag Tag

	// Checked is set for a checked TaskListMarker.
	Checked bool
}

// StartEvent returns a Start event for tag covering r.
func StartEvent(r SourceRange, tag Tag) Event {
	return Event{Kind: EventStart, Range: r, Tag: tag}
}

// EndEvent returns an End event for tag covering r.
func EndEvent(r SourceRange, tag Tag) Event {
	return Event{Kind: EventEnd, Range: r, Tag: tag}
}

// LeafEvent returns a leaf event of the given kind covering r.
func LeafEvent(kind EventKind, r SourceRange) Event {
	return Event{Kind: kind, Range: r}
}

func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Range.String())
	sb.WriteByte(' ')
	switch e.Kind {
	case EventStart, EventEnd:
		sb.WriteString(e.Kind.String())
		sb.WriteByte('(')
		sb.WriteString(e.Tag.String())
		sb.WriteByte(')')
	case EventTaskListMarker:
		sb.WriteString(e.Kind.String())
		sb.WriteString("(" + strconv.FormatBool(e.Checked) + ")")
	default:
		sb.WriteString(e.Kind.String())
	}
	return sb.String()
}
