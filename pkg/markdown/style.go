package markdown

import (
	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/text"
)

// MarkdownStyle configures how a document is rendered.
//
//nolint:revive // the package name stutters, but the name is what callers expect
type MarkdownStyle struct {
	BaseTextStyle text.TextStyle

	// CodeBlock refines the code block container; its Text field, when set,
	// styles the code.
	CodeBlock  element.StyleRefinement
	InlineCode text.TextStyleRefinement
	BlockQuote text.TextStyleRefinement
	Link       text.TextStyleRefinement

	RuleColor             text.Color
	BlockQuoteBorderColor text.Color
	SelectionBackground   text.Color

	Syntax *highlight.SyntaxTheme

	// BreakStyle refines the spacer inserted for hard line breaks.
	BreakStyle element.StyleRefinement

	// Heading refines every heading container; its Text field styles the
	// heading text. HeadingLevels adds a per-level text refinement on top,
	// indexed by level-1.
	Heading       element.StyleRefinement
	HeadingLevels [6]text.TextStyleRefinement
}

// DefaultStyle returns a style suited to a dark terminal.
func DefaultStyle() MarkdownStyle {
	return MarkdownStyle{
		BaseTextStyle: text.DefaultTextStyle(),
		CodeBlock: element.StyleRefinement{
			Background: text.Ref(text.Color("#1e1e1e")),
			Padding:    element.EdgesRefinement{Left: text.Ref(1.0), Right: text.Ref(1.0)},
			Margin:     element.EdgesRefinement{Bottom: text.Ref(1.0)},
		},
		InlineCode: text.TextStyleRefinement{
			Color:      text.Ref(text.Color("#e5c07b")),
			Background: text.Ref(text.Color("#2c2c2c")),
		},
		BlockQuote: text.TextStyleRefinement{
			Italic: text.Ref(true),
			Color:  text.Ref(text.Color("#a0a0a0")),
		},
		Link: text.TextStyleRefinement{
			Color:     text.Ref(text.Color("#61afef")),
			Underline: text.Ref(true),
		},
		RuleColor:             "#5c6370",
		BlockQuoteBorderColor: "#5c6370",
		SelectionBackground:   "#3e4451",
		Syntax:                highlight.NewSyntaxTheme(highlight.DefaultThemeName),
		Heading: element.StyleRefinement{
			Text: &text.TextStyleRefinement{Bold: text.Ref(true)},
		},
		HeadingLevels: [6]text.TextStyleRefinement{
			{Color: text.Ref(text.Color("#e06c75")), Underline: text.Ref(true)},
			{Color: text.Ref(text.Color("#e5c07b"))},
			{Color: text.Ref(text.Color("#98c379"))},
			{Color: text.Ref(text.Color("#56b6c2"))},
		},
	}
}

// headingLevel returns the per-level refinement for a 1-based level.
func (s MarkdownStyle) headingLevel(level int) text.TextStyleRefinement {
	if level < 1 || level > len(s.HeadingLevels) {
		return text.TextStyleRefinement{}
	}
	return s.HeadingLevels[level-1]
}
