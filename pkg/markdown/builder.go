package markdown

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

const bulletUnordered = "•"

// RenderedMarkdown is the output of one build: the visual tree and the index
// over its text.
type RenderedMarkdown struct {
	Element *element.Element
	Text    *RenderedText
}

// LanguageLoader resolves the language of a fenced code block. name is the
// fence's language (possibly empty) and code the block contents. A nil result
// renders the block unhighlighted.
type LanguageLoader func(name, code string) *highlight.Language

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLanguageLoader sets the code block language resolver.
func WithLanguageLoader(load LanguageLoader) BuilderOption {
	return func(b *Builder) {
		b.loadLanguage = load
	}
}

// WithBuilderLogger sets the logger unsupported constructs are reported to.
func WithBuilderLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder turns an event stream into a visual tree and a RenderedText. It
// keeps four stacks: containers, text style refinements, code block
// languages and lists. A Builder may be reused but not shared between
// goroutines.
type Builder struct {
	style        MarkdownStyle
	shaper       text.Shaper
	loadLanguage LanguageLoader
	logger       *log.Logger

	divStack       []*element.Element
	styleStack     []text.TextStyleRefinement
	codeBlockStack []*highlight.Language
	listStack      []listEntry

	lines       []RenderedLine
	links       []RenderedLink
	pending     pendingLine
	sourceIndex int
}

type pendingLine struct {
	text     []byte
	runs     []text.TextRun
	mappings []SourceMapping
}

type listEntry struct {
	ordered bool
	next    int
}

// NewBuilder creates a builder.
func NewBuilder(style MarkdownStyle, shaper text.Shaper, opts ...BuilderOption) *Builder {
	b := &Builder{
		style:  style,
		shaper: shaper,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders events parsed from source. The stream must be balanced;
// a Start without its End, or the reverse, panics.
func (b *Builder) Build(events []mdast.Event, source string) *RenderedMarkdown {
	b.reset()

	markdownEnd := 0
	if len(events) > 0 {
		markdownEnd = events[len(events)-1].Range.EndOffset
	}

	for idx, event := range events {
		r := event.Range
		switch event.Kind {
		case mdast.EventStart:
			b.start(event.Tag, r, markdownEnd, events[idx+1:], source)
		case mdast.EventEnd:
			b.end(event.Tag)
		case mdast.EventText, mdast.EventHTML, mdast.EventInlineHTML:
			b.pushText(r.Text(source), r.StartOffset)
		case mdast.EventCode:
			b.pushTextStyle(b.style.InlineCode)
			b.pushText(r.Text(source), r.StartOffset)
			b.popTextStyle()
		case mdast.EventRule:
			b.pushDiv(element.Div().Named("rule").BorderB(1).MY(1).BorderColor(b.style.RuleColor), r, markdownEnd)
			b.popDiv()
		case mdast.EventSoftBreak:
			b.pushText(" ", r.StartOffset)
		case mdast.EventHardBreak:
			b.pushDiv(element.Div().Named("break").Refine(b.style.BreakStyle), r, markdownEnd)
			b.popDiv()
		default:
			b.logger.Warn("unsupported markdown event", logging.FieldEvent, event.Kind, logging.FieldRange, r)
		}
	}

	return b.finish()
}

func (b *Builder) start(tag mdast.Tag, r mdast.SourceRange, markdownEnd int, rest []mdast.Event, source string) {
	switch tag.Kind {
	case mdast.TagParagraph:
		b.pushDiv(element.Div().Named("paragraph").MB(1), r, markdownEnd)

	case mdast.TagHeading:
		heading := element.Div().Named("heading").MB(1).Refine(b.style.Heading)
		b.pushTextStyle(b.style.Heading.TextStyle().Merge(b.style.headingLevel(tag.Level)))
		b.pushDiv(heading, r, markdownEnd)

	case mdast.TagBlockQuote:
		b.pushTextStyle(b.style.BlockQuote)
		b.pushDiv(element.Div().Named("blockquote").
			PL(2).MB(1).BorderL(1).BorderColor(b.style.BlockQuoteBorderColor), r, markdownEnd)

	case mdast.TagCodeBlock:
		var lang *highlight.Language
		if tag.CodeBlock == mdast.CodeBlockFenced && b.loadLanguage != nil {
			lang = b.loadLanguage(tag.Language, codeBlockText(rest, source))
		}
		if b.style.CodeBlock.Text != nil {
			b.pushTextStyle(*b.style.CodeBlock.Text)
		}
		b.codeBlockStack = append(b.codeBlockStack, lang)
		b.pushDiv(element.Div().Named("code").Rounded().Refine(b.style.CodeBlock), r, markdownEnd)

	case mdast.TagHTMLBlock:
		b.pushDiv(element.Div().Named("html"), r, markdownEnd)

	case mdast.TagList:
		b.listStack = append(b.listStack, listEntry{ordered: tag.Ordered, next: tag.ListStart})
		b.pushDiv(element.Div().Named("list").PL(2), r, markdownEnd)

	case mdast.TagItem:
		bullet := bulletUnordered
		if n, ok := b.nextBulletIndex(); ok {
			bullet = strconv.Itoa(n) + "."
		}
		style := b.textStyle()
		label := element.Text(b.shaper.Shape(bullet, []text.TextRun{style.ToRun(len(bullet))})).Named("bullet")
		b.pushDiv(element.Div().Named("item").HFlex().Gap(1).Child(label), r, markdownEnd)
		b.pushDiv(element.Div().Named("item-content").Flex1(), r, markdownEnd)

	case mdast.TagEmphasis:
		b.pushTextStyle(text.TextStyleRefinement{Italic: text.Ref(true)})
	case mdast.TagStrong:
		b.pushTextStyle(text.TextStyleRefinement{Bold: text.Ref(true)})
	case mdast.TagStrikethrough:
		b.pushTextStyle(text.TextStyleRefinement{Strikethrough: text.Ref(true)})

	case mdast.TagLink:
		if len(b.codeBlockStack) == 0 {
			b.links = append(b.links, RenderedLink{SourceRange: r, DestinationURL: tag.DestURL})
			b.pushTextStyle(b.style.Link)
		}

	default:
		b.logger.Warn("unsupported markdown tag", logging.FieldTag, tag.Kind, logging.FieldRange, r)
	}
}

func (b *Builder) end(tag mdast.Tag) {
	switch tag.Kind {
	case mdast.TagParagraph, mdast.TagHTMLBlock:
		b.popDiv()
	case mdast.TagHeading, mdast.TagBlockQuote:
		b.popDiv()
		b.popTextStyle()
	case mdast.TagCodeBlock:
		b.trimTrailingNewline()
		b.popDiv()
		b.codeBlockStack = b.codeBlockStack[:len(b.codeBlockStack)-1]
		if b.style.CodeBlock.Text != nil {
			b.popTextStyle()
		}
	case mdast.TagList:
		b.listStack = b.listStack[:len(b.listStack)-1]
		b.popDiv()
	case mdast.TagItem:
		b.popDiv()
		b.popDiv()
	case mdast.TagEmphasis, mdast.TagStrong, mdast.TagStrikethrough:
		b.popTextStyle()
	case mdast.TagLink:
		if len(b.codeBlockStack) == 0 {
			b.popTextStyle()
		}
	default:
		b.logger.Warn("unsupported markdown tag end", logging.FieldTag, tag.Kind)
	}
}

// codeBlockText joins the text events up to the end of the enclosing code
// block.
func codeBlockText(rest []mdast.Event, source string) string {
	var sb strings.Builder
	depth := 0
	for _, event := range rest {
		switch event.Kind {
		case mdast.EventStart:
			depth++
		case mdast.EventEnd:
			if depth == 0 {
				return sb.String()
			}
			depth--
		case mdast.EventText:
			sb.WriteString(event.Range.Text(source))
		}
	}
	return sb.String()
}

func (b *Builder) reset() {
	b.divStack = []*element.Element{element.Div().Named("markdown")}
	b.styleStack = nil
	b.codeBlockStack = nil
	b.listStack = nil
	b.lines = nil
	b.links = nil
	b.pending = pendingLine{}
	b.sourceIndex = 0
}

func (b *Builder) finish() *RenderedMarkdown {
	if len(b.divStack) != 1 {
		panic("markdown: unbalanced event stream: " + strconv.Itoa(len(b.divStack)-1) + " containers left open")
	}
	b.flushText()

	root := b.divStack[0]
	rendered := &RenderedMarkdown{
		Element: root,
		Text:    NewRenderedText(b.lines, b.links),
	}
	b.divStack = nil
	b.lines = nil
	b.links = nil
	return rendered
}

func (b *Builder) pushTextStyle(r text.TextStyleRefinement) {
	b.styleStack = append(b.styleStack, r)
}

func (b *Builder) popTextStyle() {
	if len(b.styleStack) == 0 {
		panic("markdown: text style stack underflow")
	}
	b.styleStack = b.styleStack[:len(b.styleStack)-1]
}

func (b *Builder) textStyle() text.TextStyle {
	style := b.style.BaseTextStyle
	for _, r := range b.styleStack {
		style.Refine(r)
	}
	return style
}

// pushDiv flushes pending text and opens div. The first block of the
// document loses its top margin and the last one its bottom margin.
func (b *Builder) pushDiv(div *element.Element, r mdast.SourceRange, markdownEnd int) {
	b.flushText()

	if r.StartOffset == 0 {
		div.Style.Margin.Top = 0
	}
	if r.EndOffset == markdownEnd {
		div.Style.Margin.Bottom = 0
	}

	b.divStack = append(b.divStack, div)
}

func (b *Builder) popDiv() {
	if len(b.divStack) < 2 {
		panic("markdown: unbalanced event stream: end without start")
	}
	b.flushText()

	top := len(b.divStack) - 1
	div := b.divStack[top]
	b.divStack = b.divStack[:top]
	element.AppendChild(b.divStack[top-1], div)
}

func (b *Builder) nextBulletIndex() (int, bool) {
	if len(b.listStack) == 0 {
		return 0, false
	}
	entry := &b.listStack[len(b.listStack)-1]
	if !entry.ordered {
		return 0, false
	}
	n := entry.next
	entry.next++
	return n, true
}

func (b *Builder) pushText(s string, sourceIndex int) {
	b.pending.mappings = append(b.pending.mappings, SourceMapping{
		RenderedIndex: len(b.pending.text),
		SourceIndex:   sourceIndex,
	})
	b.pending.text = append(b.pending.text, s...)
	b.sourceIndex = sourceIndex + len(s)

	style := b.textStyle()

	var lang *highlight.Language
	if n := len(b.codeBlockStack); n > 0 {
		lang = b.codeBlockStack[n-1]
	}
	if lang == nil {
		b.pending.runs = append(b.pending.runs, style.ToRun(len(s)))
		return
	}

	offset := 0
	for _, span := range lang.Highlight(s, 0, len(s)) {
		if span.Start > offset {
			b.pending.runs = append(b.pending.runs, style.ToRun(span.Start-offset))
		}
		runStyle := style
		if refinement, ok := b.style.Syntax.Style(span.ID); ok {
			runStyle.Refine(refinement)
		}
		b.pending.runs = append(b.pending.runs, runStyle.ToRun(span.Len()))
		offset = span.End
	}
	if offset < len(s) {
		b.pending.runs = append(b.pending.runs, style.ToRun(len(s)-offset))
	}
}

func (b *Builder) trimTrailingNewline() {
	n := len(b.pending.text)
	if n == 0 || b.pending.text[n-1] != '\n' {
		return
	}

	b.pending.text = b.pending.text[:n-1]
	last := len(b.pending.runs) - 1
	b.pending.runs[last].Len--
	if b.pending.runs[last].Len == 0 {
		b.pending.runs = b.pending.runs[:last]
	}
	b.sourceIndex--
}

// flushText shapes the pending line, records it and appends it to the
// current container.
func (b *Builder) flushText() {
	line := b.pending
	b.pending = pendingLine{}
	if len(line.text) == 0 {
		return
	}

	layout := b.shaper.Shape(string(line.text), line.runs)
	b.lines = append(b.lines, NewRenderedLine(layout, line.mappings, b.sourceIndex))
	element.AppendChild(b.divStack[len(b.divStack)-1], element.Text(layout))
}
