// Package config defines core configuration types for mdview.
// These types are pure data structures with no dependency on the loader.
package config

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// ColorMode controls whether terminal output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// FallbackAuto as a fallback language detects the language of a code block
// from its content.
const FallbackAuto = "auto"

// Log levels accepted by log_level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ThemeConfig overrides the colors of the default style. Colors are
// "#rgb" or "#rrggbb" hex strings, or ANSI color numbers.
type ThemeConfig struct {
	// Syntax is the chroma style used to highlight code blocks.
	Syntax string `yaml:"syntax,omitempty"`

	Selection           string `yaml:"selection,omitempty"`
	Link                string `yaml:"link,omitempty"`
	InlineCode          string `yaml:"inline_code,omitempty"`
	CodeBlockBackground string `yaml:"code_block_background,omitempty"`
	BlockQuoteBorder    string `yaml:"block_quote_border,omitempty"`
	Rule                string `yaml:"rule,omitempty"`
}

// Colors returns the color fields keyed by their YAML name.
func (t ThemeConfig) Colors() map[string]string {
	return map[string]string{
		"selection":             t.Selection,
		"link":                  t.Link,
		"inline_code":           t.InlineCode,
		"code_block_background": t.CodeBlockBackground,
		"block_quote_border":    t.BlockQuoteBorder,
		"rule":                  t.Rule,
	}
}

// Config is the root configuration structure for mdview.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// LinksOnly treats documents as plain text and only recognizes links.
	// A pointer so that a later source can turn it off again.
	LinksOnly *bool `yaml:"links_only,omitempty"`

	// Width is the render width in cells. 0 uses the terminal width.
	Width int `yaml:"width,omitempty"`

	// FallbackLanguage highlights code blocks whose fence names an unknown
	// language. "auto" detects the language from the code.
	FallbackLanguage string `yaml:"fallback_language,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	Theme ThemeConfig `yaml:"theme,omitempty"`

	// CLI-level options (not persisted to config files).

	// Color controls colored output.
	Color ColorMode `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:   FlavorGFM,
		LogLevel: LogLevelWarn,
		Color:    ColorAuto,
	}
}

// IsLinksOnly reports whether links-only mode is on.
func (c *Config) IsLinksOnly() bool {
	return c != nil && c.LinksOnly != nil && *c.LinksOnly
}
