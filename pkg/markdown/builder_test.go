package markdown_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/markdown"
	"github.com/yaklabco/mdview/pkg/mdast"
	goldmarkparser "github.com/yaklabco/mdview/pkg/parser/goldmark"
	"github.com/yaklabco/mdview/pkg/text"
)

func parseEvents(t *testing.T, source string) []mdast.Event {
	t.Helper()

	events, err := goldmarkparser.New(goldmarkparser.FlavorGFM).Parse(context.Background(), source)
	require.NoError(t, err)
	return events
}

func build(t *testing.T, source string, opts ...markdown.BuilderOption) *markdown.RenderedMarkdown {
	t.Helper()

	b := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper(), opts...)
	return b.Build(parseEvents(t, source), source)
}

func lineTexts(rendered *markdown.RenderedText) []string {
	var texts []string
	for _, line := range rendered.Lines() {
		texts = append(texts, line.Layout().Text())
	}
	return texts
}

func runLens(runs []text.TextRun) []int {
	lens := make([]int, 0, len(runs))
	for _, run := range runs {
		lens = append(lens, run.Len)
	}
	return lens
}

func named(root *element.Element, name string) []*element.Element {
	return element.FindAll(root, func(e *element.Element) bool { return e.Name == name })
}

func TestBuilder_HeadingAndParagraph(t *testing.T) {
	t.Parallel()

	rendered := build(t, "# Title\n\nBody *em*.")
	lines := rendered.Text.Lines()
	require.Len(t, lines, 2)

	title := lines[0]
	assert.Equal(t, "Title", title.Layout().Text())
	assert.Equal(t, []markdown.SourceMapping{{RenderedIndex: 0, SourceIndex: 2}}, title.Mappings())
	assert.Equal(t, 7, title.SourceEnd())
	require.Len(t, title.Layout().Runs(), 1)
	assert.True(t, title.Layout().Runs()[0].Style.Bold)

	body := lines[1]
	assert.Equal(t, "Body em.", body.Layout().Text())
	assert.Equal(t, []markdown.SourceMapping{
		{RenderedIndex: 0, SourceIndex: 9},
		{RenderedIndex: 5, SourceIndex: 15},
		{RenderedIndex: 7, SourceIndex: 18},
	}, body.Mappings())
	assert.Equal(t, 19, body.SourceEnd())

	runs := body.Layout().Runs()
	assert.Equal(t, []int{5, 2, 1}, runLens(runs))
	assert.False(t, runs[0].Style.Italic)
	assert.True(t, runs[1].Style.Italic)
	assert.False(t, runs[2].Style.Italic)

	headings := named(rendered.Element, "heading")
	paragraphs := named(rendered.Element, "paragraph")
	require.Len(t, headings, 1)
	require.Len(t, paragraphs, 1)
	assert.InDelta(t, 0.0, headings[0].Style.Margin.Top, 0, "first block loses its top margin")
	assert.InDelta(t, 1.0, headings[0].Style.Margin.Bottom, 0)
	assert.InDelta(t, 0.0, paragraphs[0].Style.Margin.Bottom, 0, "last block loses its bottom margin")

	assert.Equal(t, []*element.Element{headings[0], paragraphs[0]}, rendered.Element.Children())
}

func TestBuilder_FencedCodeTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	rendered := build(t, "```\ncode\n```")
	lines := rendered.Text.Lines()
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "code", line.Layout().Text())
	assert.Equal(t, 8, line.SourceEnd())
	assert.Equal(t, []int{4}, runLens(line.Layout().Runs()))

	blocks := named(rendered.Element, "code")
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Style.Rounded)
	assert.Equal(t, text.Color("#1e1e1e"), blocks[0].Style.Background)
	assert.InDelta(t, 0.0, blocks[0].Style.Margin.Bottom, 0)
}

func TestBuilder_CodeBlockHighlighting(t *testing.T) {
	t.Parallel()

	registry := highlight.NewRegistry()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	goLang, err := registry.LanguageForName("go").Wait(ctx)
	require.NoError(t, err)

	var gotName, gotCode string
	loader := func(name, code string) *highlight.Language {
		gotName, gotCode = name, code
		return goLang
	}

	rendered := build(t, "```go\nx := 1\n```", markdown.WithLanguageLoader(loader))
	assert.Equal(t, "go", gotName)
	assert.Equal(t, "x := 1\n", gotCode)

	lines := rendered.Text.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "x := 1", lines[0].Layout().Text())

	runs := lines[0].Layout().Runs()
	total := 0
	colored := false
	for _, run := range runs {
		total += run.Len
		if run.Style.Color.IsSet() {
			colored = true
		}
	}
	assert.Equal(t, len("x := 1"), total)
	assert.Greater(t, len(runs), 1)
	assert.True(t, colored, "highlighted tokens carry the syntax theme color")
}

func TestBuilder_ListBullets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		bullets []string
	}{
		{name: "unordered", source: "- a\n- b\n", bullets: []string{"•", "•"}},
		{name: "ordered from three", source: "3. a\n4. b\n", bullets: []string{"3.", "4."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rendered := build(t, tt.source)

			var bullets []string
			for _, e := range named(rendered.Element, "bullet") {
				bullets = append(bullets, e.Layout.Text())
			}
			assert.Equal(t, tt.bullets, bullets)
			assert.Equal(t, []string{"a", "b"}, lineTexts(rendered.Text), "bullets are not selectable text")

			items := named(rendered.Element, "item")
			require.Len(t, items, 2)
			assert.Equal(t, element.Row, items[0].Style.Direction)
			assert.Len(t, named(items[0], "item-content"), 1)
		})
	}
}

func TestBuilder_Links(t *testing.T) {
	t.Parallel()

	rendered := build(t, "see [docs](http://x) now")

	assert.Equal(t, []string{"see docs now"}, lineTexts(rendered.Text))
	assert.Equal(t, []markdown.RenderedLink{
		{SourceRange: mdast.NewRange(4, 20), DestinationURL: "http://x"},
	}, rendered.Text.Links())

	runs := rendered.Text.Lines()[0].Layout().Runs()
	require.Len(t, runs, 3)
	assert.True(t, runs[1].Style.Underline)
	assert.False(t, runs[0].Style.Underline)
}

func TestBuilder_LinkInsideCodeBlockIsNotRegistered(t *testing.T) {
	t.Parallel()

	source := "```\n[a](b)\n```"
	events := []mdast.Event{
		mdast.StartEvent(mdast.NewRange(0, 14), mdast.FencedCodeBlock("")),
		mdast.StartEvent(mdast.NewRange(4, 10), mdast.Link("b", "")),
		mdast.LeafEvent(mdast.EventText, mdast.NewRange(5, 6)),
		mdast.EndEvent(mdast.NewRange(4, 10), mdast.Link("b", "")),
		mdast.EndEvent(mdast.NewRange(0, 14), mdast.FencedCodeBlock("")),
	}

	rendered := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper()).Build(events, source)

	assert.Empty(t, rendered.Text.Links())
	assert.Equal(t, []string{"a"}, lineTexts(rendered.Text))
}

func TestBuilder_Breaks(t *testing.T) {
	t.Parallel()

	soft := build(t, "a\nb")
	require.Len(t, soft.Text.Lines(), 1)
	line := soft.Text.Lines()[0]
	assert.Equal(t, "a b", line.Layout().Text())
	assert.Equal(t, []markdown.SourceMapping{
		{RenderedIndex: 0, SourceIndex: 0},
		{RenderedIndex: 1, SourceIndex: 1},
		{RenderedIndex: 2, SourceIndex: 2},
	}, line.Mappings())

	hard := build(t, "a  \nb")
	texts := lineTexts(hard.Text)
	require.Len(t, texts, 2, "a hard break starts a new line")
	assert.Equal(t, "a", strings.TrimSpace(texts[0]))
	assert.Equal(t, "b", texts[1])
	assert.Len(t, named(hard.Element, "break"), 1)
}

func TestBuilder_RuleAndBlockQuote(t *testing.T) {
	t.Parallel()

	rendered := build(t, "> quoted\n\n---\n\nafter")

	quotes := named(rendered.Element, "blockquote")
	require.Len(t, quotes, 1)
	assert.InDelta(t, 1.0, quotes[0].Style.BorderLeft, 0)
	assert.InDelta(t, 2.0, quotes[0].Style.Padding.Left, 0)
	assert.InDelta(t, 0.0, quotes[0].Style.Margin.Top, 0)

	rules := named(rendered.Element, "rule")
	require.Len(t, rules, 1)
	assert.InDelta(t, 1.0, rules[0].Style.BorderBottom, 0)
	assert.InDelta(t, 1.0, rules[0].Style.Margin.Top, 0)

	lines := rendered.Text.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "quoted", lines[0].Layout().Text())
	assert.True(t, lines[0].Layout().Runs()[0].Style.Italic)
	assert.False(t, lines[1].Layout().Runs()[0].Style.Italic, "the quote style is popped with the quote")
}

func TestBuilder_InlineCode(t *testing.T) {
	t.Parallel()

	rendered := build(t, "run `go test` now")
	lines := rendered.Text.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "run go test now", lines[0].Layout().Text())

	runs := lines[0].Layout().Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, text.Color("#2c2c2c"), runs[1].Style.Background)
	assert.False(t, runs[2].Style.Background.IsSet())
}

func TestBuilder_UnsupportedTagsWarnAndKeepText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)

	source := "![alt](img.png)"
	events := []mdast.Event{
		mdast.StartEvent(mdast.NewRange(0, 15), mdast.Paragraph()),
		mdast.StartEvent(mdast.NewRange(0, 15), mdast.Image("img.png", "")),
		mdast.LeafEvent(mdast.EventText, mdast.NewRange(2, 5)),
		mdast.EndEvent(mdast.NewRange(0, 15), mdast.Image("img.png", "")),
		mdast.LeafEvent(mdast.EventTaskListMarker, mdast.NewRange(15, 15)),
		mdast.EndEvent(mdast.NewRange(0, 15), mdast.Paragraph()),
	}

	b := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper(), markdown.WithBuilderLogger(logger))
	rendered := b.Build(events, source)

	assert.Equal(t, []string{"alt"}, lineTexts(rendered.Text))
	assert.Contains(t, buf.String(), "unsupported markdown tag")
	assert.Contains(t, buf.String(), "unsupported markdown event")
}

func TestBuilder_UnbalancedStreamPanics(t *testing.T) {
	t.Parallel()

	b := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper())

	assert.Panics(t, func() {
		b.Build([]mdast.Event{mdast.StartEvent(mdast.NewRange(0, 1), mdast.Paragraph())}, "a")
	})
	assert.Panics(t, func() {
		b.Build([]mdast.Event{mdast.EndEvent(mdast.NewRange(0, 1), mdast.Paragraph())}, "a")
	})
}

func TestBuilder_Reuse(t *testing.T) {
	t.Parallel()

	source := "# Title\n\nBody *em*."
	events := parseEvents(t, source)
	b := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper())

	first := b.Build(events, source)
	second := b.Build(events, source)

	assert.Equal(t, lineTexts(first.Text), lineTexts(second.Text))
	assert.Len(t, second.Element.Children(), 2)
}

func TestBuilder_EmptyDocument(t *testing.T) {
	t.Parallel()

	rendered := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper()).Build(nil, "")

	require.NotNil(t, rendered.Element)
	assert.False(t, rendered.Element.HasChildren())
	assert.Empty(t, rendered.Text.Lines())
}
