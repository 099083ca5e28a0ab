package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/text"
)

func textLeaf(s string) *element.Element {
	return element.Text(text.NewMonoShaper().Shape(s, []text.TextRun{text.DefaultTextStyle().ToRun(len(s))}))
}

func TestLayout_ColumnStacksChildren(t *testing.T) {
	t.Parallel()

	first := element.Div().MB(1).Child(textLeaf("one"))
	second := element.Div().Child(textLeaf("two"))
	root := element.Div().Child(first).Child(second)

	size := element.Layout(root, text.Pt(0, 0), 20)

	assert.Equal(t, text.Size{Width: 20, Height: 3}, size)
	assert.Equal(t, text.Bounds{Size: text.Size{Width: 20, Height: 1}}, first.Bounds())
	assert.Equal(t, text.Pt(0, 2), second.Bounds().Origin)
}

func TestLayout_PaddingAndBorder(t *testing.T) {
	t.Parallel()

	leaf := textLeaf("quoted")
	quote := element.Div().PL(2).BorderL(1).Child(leaf)

	element.Layout(quote, text.Pt(1, 1), 20)

	assert.Equal(t, text.Pt(1, 1), quote.Bounds().Origin)
	assert.Equal(t, text.Pt(4, 1), leaf.Bounds().Origin)
	assert.InDelta(t, 17.0, leaf.Layout.Bounds().Size.Width, 0)
}

func TestLayout_RowSharesFreeSpace(t *testing.T) {
	t.Parallel()

	bullet := textLeaf("•")
	body := element.Div().Flex1().Child(textLeaf("item text that wraps"))
	row := element.Div().HFlex().Gap(1).Child(bullet).Child(body)

	element.Layout(row, text.Pt(0, 0), 12)

	assert.InDelta(t, 1.0, bullet.Bounds().Size.Width, 0)
	assert.Equal(t, text.Pt(2, 0), body.Bounds().Origin)
	assert.InDelta(t, 10.0, body.Bounds().Size.Width, 0)
	assert.InDelta(t, body.Bounds().Size.Height, row.Bounds().Size.Height, 0)
	assert.Greater(t, row.Bounds().Size.Height, 1.0, "body text should wrap")
}

func TestLayout_Margins(t *testing.T) {
	t.Parallel()

	inner := element.Div().MY(1).Child(textLeaf("x"))
	root := element.Div().Child(inner)

	size := element.Layout(root, text.Pt(0, 0), 10)

	assert.InDelta(t, 3.0, size.Height, 0)
	assert.Equal(t, text.Pt(0, 1), inner.Bounds().Origin)
}

func TestStyle_Refine(t *testing.T) {
	t.Parallel()

	var style element.Style
	style.Margin = element.Edges{Top: 1, Bottom: 1}

	style.Refine(element.StyleRefinement{
		Margin:     element.EdgesRefinement{Top: text.Ref(0.0)},
		Background: text.Ref(text.Color("#222222")),
	})

	assert.InDelta(t, 0.0, style.Margin.Top, 0)
	assert.InDelta(t, 1.0, style.Margin.Bottom, 0)
	assert.Equal(t, text.Color("#222222"), style.Background)
}

func TestStyleRefinement_MergeText(t *testing.T) {
	t.Parallel()

	base := element.StyleRefinement{Text: &text.TextStyleRefinement{Bold: text.Ref(true)}}
	merged := base.Merge(element.StyleRefinement{
		Text:    &text.TextStyleRefinement{Italic: text.Ref(true)},
		Gap:     text.Ref(2.0),
		Padding: element.EdgesRefinement{Left: text.Ref(1.0)},
	})

	require.NotNil(t, merged.Text)
	assert.Equal(t, text.Ref(true), merged.Text.Bold)
	assert.Equal(t, text.Ref(true), merged.Text.Italic)
	assert.Equal(t, text.Ref(2.0), merged.Gap)
	assert.True(t, element.StyleRefinement{}.TextStyle().IsEmpty())
}

type recordingCanvas struct {
	quads []element.Quad
	texts []string
}

func (c *recordingCanvas) PaintQuad(q element.Quad) { c.quads = append(c.quads, q) }
func (c *recordingCanvas) PaintText(layout text.Layout) { c.texts = append(c.texts, layout.Text()) }

func TestPaint_Order(t *testing.T) {
	t.Parallel()

	code := element.Div().Bg("#101010").Child(textLeaf("code"))
	rule := element.Div().BorderB(1).BorderColor("#444444")
	plain := element.Div().Child(textLeaf("plain"))
	root := element.Div().Child(code).Child(rule).Child(plain)
	element.Layout(root, text.Pt(0, 0), 10)

	canvas := &recordingCanvas{}
	element.Paint(root, canvas)

	require.Len(t, canvas.quads, 2)
	assert.Equal(t, text.Color("#101010"), canvas.quads[0].Background)
	assert.InDelta(t, 1.0, canvas.quads[1].BorderBottom, 0)
	assert.Equal(t, []string{"code", "plain"}, canvas.texts)
}

func TestPaint_BordersOverChildren(t *testing.T) {
	t.Parallel()

	inner := element.Div().Bg("#202020").Child(textLeaf("quoted"))
	quote := element.Div().BorderL(1).BorderColor("#888888").PL(2).Bg("#000000").Child(inner)
	element.Layout(quote, text.Pt(0, 0), 10)

	canvas := &recordingCanvas{}
	element.Paint(quote, canvas)

	require.Len(t, canvas.quads, 3)
	assert.Equal(t, text.Color("#000000"), canvas.quads[0].Background)
	assert.Zero(t, canvas.quads[0].BorderLeft, "background pass carries no border")
	assert.Equal(t, text.Color("#202020"), canvas.quads[1].Background)
	assert.InDelta(t, 1.0, canvas.quads[2].BorderLeft, 0)
	assert.False(t, canvas.quads[2].Background.IsSet(), "border pass carries no background")
	assert.Equal(t, quote.Bounds(), canvas.quads[2].Bounds)
}
