package config

import (
	"bytes"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. Otherwise the
	// settings are left commented out.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) []byte {
	prefix := "# "
	if opts.Full {
		prefix = ""
	}

	defaults := NewConfig()

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	buf.WriteString("# Markdown flavor: commonmark or gfm\n")
	fmt.Fprintf(&buf, "flavor: %s\n\n", defaults.Flavor)

	buf.WriteString("# Treat documents as plain text and only recognize links\n")
	fmt.Fprintf(&buf, "%slinks_only: false\n\n", prefix)

	buf.WriteString("# Render width in cells (0 = terminal width)\n")
	fmt.Fprintf(&buf, "%swidth: 0\n\n", prefix)

	buf.WriteString("# Language for code blocks with an unknown fence language,\n")
	buf.WriteString("# or \"auto\" to detect it from the code\n")
	fmt.Fprintf(&buf, "%sfallback_language: %s\n\n", prefix, FallbackAuto)

	buf.WriteString("# Log level: debug, info, warn, or error\n")
	fmt.Fprintf(&buf, "%slog_level: %s\n\n", prefix, defaults.LogLevel)

	buf.WriteString("# Colors are \"#rrggbb\" hex strings or ANSI color numbers\n")
	fmt.Fprintf(&buf, "%stheme:\n", prefix)
	fmt.Fprintf(&buf, "%s  syntax: monokai\n", prefix)
	fmt.Fprintf(&buf, "%s  selection: \"#3e4451\"\n", prefix)
	fmt.Fprintf(&buf, "%s  link: \"#61afef\"\n", prefix)
	fmt.Fprintf(&buf, "%s  inline_code: \"#e5c07b\"\n", prefix)
	fmt.Fprintf(&buf, "%s  code_block_background: \"#1e1e1e\"\n", prefix)
	fmt.Fprintf(&buf, "%s  block_quote_border: \"#5c6370\"\n", prefix)
	fmt.Fprintf(&buf, "%s  rule: \"#5c6370\"\n", prefix)

	return buf.Bytes()
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdview configuration
# See: https://github.com/yaklabco/mdview`
}
