// Package cli provides the Cobra command structure for mdview.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdview/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root mdview command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdview",
		Short: "Render Markdown in the terminal with selection and hit testing",
		Long: `mdview renders Markdown documents to the terminal.

Documents are parsed in the background, laid out on a cell grid and painted
with syntax-highlighted code blocks. Every rendered glyph maps back to its
source offset, so selections, word and line picks, link hits and copies all
resolve to exact ranges of the original text.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.StringVar(&opts.color, "color", "auto", "colorize output: auto, always, never")
	flags.IntVar(&opts.width, "width", 0, "render width in cells (0 = terminal width)")
	flags.StringVar(&opts.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	flags.BoolVar(&opts.linksOnly, "links-only", false, "treat input as plain text and only recognize links")
	flags.StringVar(&opts.fallbackLanguage, "fallback-language", "",
		"language for code blocks with an unknown language, or auto to detect")
	flags.StringVar(&opts.syntaxTheme, "syntax-theme", "", "chroma style for code blocks")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newEventsCommand(opts))
	rootCmd.AddCommand(newCopyCommand(opts))
	rootCmd.AddCommand(newHitCommand(opts))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(opts.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
