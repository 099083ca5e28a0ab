package cli

import (
	"github.com/yaklabco/mdview/pkg/config"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/markdown"
	"github.com/yaklabco/mdview/pkg/text"
)

// styleFromConfig applies the configured theme on top of the default style.
func styleFromConfig(cfg *config.Config) markdown.MarkdownStyle {
	style := markdown.DefaultStyle()
	theme := cfg.Theme

	if theme.Syntax != "" {
		style.Syntax = highlight.NewSyntaxTheme(theme.Syntax)
	}
	if theme.Selection != "" {
		style.SelectionBackground = text.Color(theme.Selection)
	}
	if theme.Link != "" {
		style.Link.Color = text.Ref(text.Color(theme.Link))
	}
	if theme.InlineCode != "" {
		style.InlineCode.Color = text.Ref(text.Color(theme.InlineCode))
	}
	if theme.CodeBlockBackground != "" {
		style.CodeBlock.Background = text.Ref(text.Color(theme.CodeBlockBackground))
	}
	if theme.BlockQuoteBorder != "" {
		style.BlockQuoteBorderColor = text.Color(theme.BlockQuoteBorder)
	}
	if theme.Rule != "" {
		style.RuleColor = text.Color(theme.Rule)
	}

	return style
}
