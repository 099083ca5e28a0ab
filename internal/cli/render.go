package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdview/internal/ui/pretty"
	"github.com/yaklabco/mdview/pkg/markdown"
	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

var (
	// ErrInvalidRange is returned for a malformed or out of bounds start:end range.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidPoint is returned for a malformed x,y point.
	ErrInvalidPoint = errors.New("invalid point")
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var selectRange string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a Markdown document to the terminal",
		Long: `Render a Markdown document to the terminal.

Reads the file named by the argument, or standard input when it is "-" or
missing, and paints it at the configured width.`,
		Example: `  mdview render README.md
  mdview render --width 60 --color always README.md
  mdview render --select 0:12 README.md
  cat notes.md | mdview render -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd, args)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("select") {
				r, err := parseRange(selectRange, len(sess.view.Source()))
				if err != nil {
					return err
				}
				sess.view.SetSelection(markdown.Selection{Start: r.StartOffset, End: r.EndOffset})
			}

			_, canvas := sess.frame(markdown.NewHeadlessWindow())
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), canvas.Render(sess.colorEnabled)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&selectRange, "select", "", "highlight the source range start:end")

	return cmd
}

func newEventsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events [file]",
		Short: "Print the parser event stream of a document",
		Long: `Print the parser event stream of a document as an indented outline.

Each line shows the line:col of the event, its kind and tag, its source
range and, for text-like events, a quoted snippet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd, args)
			if err != nil {
				return err
			}
			formatter := pretty.NewEventFormatter(cmd.OutOrStdout(), pretty.NewStyles(sess.colorEnabled))
			return formatter.Format(sess.view.ParsedMarkdown())
		},
	}
}

func newCopyCommand(opts *rootOptions) *cobra.Command {
	var copyRange string

	cmd := &cobra.Command{
		Use:   "copy [file]",
		Short: "Print the rendered text of a source range",
		Long: `Select a source range and run the copy action on it.

The printed text is what a user would get on the clipboard: markup is
dropped and the text of every rendered line in the range is joined with
newlines.`,
		Example: `  mdview copy --range 0:40 README.md`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd, args)
			if err != nil {
				return err
			}

			r, err := parseRange(copyRange, len(sess.view.Source()))
			if err != nil {
				return err
			}
			sess.view.SetSelection(markdown.Selection{Start: r.StartOffset, End: r.EndOffset})

			window := markdown.NewHeadlessWindow()
			sess.frame(window)
			window.DispatchAction(markdown.ActionCopy)

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), window.Clipboard); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&copyRange, "range", "", "source range start:end to copy")
	_ = cmd.MarkFlagRequired("range")

	return cmd
}

// parseRange parses "start:end" into a range within [0, limit].
func parseRange(s string, limit int) (mdast.SourceRange, error) {
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return mdast.SourceRange{}, fmt.Errorf("%w %q: expected start:end", ErrInvalidRange, s)
	}
	start, errStart := strconv.Atoi(strings.TrimSpace(startStr))
	end, errEnd := strconv.Atoi(strings.TrimSpace(endStr))
	if errStart != nil || errEnd != nil {
		return mdast.SourceRange{}, fmt.Errorf("%w %q: offsets must be integers", ErrInvalidRange, s)
	}
	if start < 0 || start > end || end > limit {
		return mdast.SourceRange{}, fmt.Errorf("%w %q: must satisfy 0 <= start <= end <= %d", ErrInvalidRange, s, limit)
	}
	return mdast.NewRange(start, end), nil
}

// parsePoint parses "x,y" into a point.
func parsePoint(s string) (text.Point, error) {
	xStr, yStr, ok := strings.Cut(s, ",")
	if !ok {
		return text.Point{}, fmt.Errorf("%w %q: expected x,y", ErrInvalidPoint, s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xStr), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(yStr), 64)
	if errX != nil || errY != nil {
		return text.Point{}, fmt.Errorf("%w %q: coordinates must be numbers", ErrInvalidPoint, s)
	}
	return text.Pt(x, y), nil
}
