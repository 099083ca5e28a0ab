package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/internal/ui/pretty"
	"github.com/yaklabco/mdview/pkg/markdown"
	"github.com/yaklabco/mdview/pkg/text"
)

type hitFlags struct {
	at     string
	dragTo string
	clicks int
}

func newHitCommand(opts *rootOptions) *cobra.Command {
	flags := &hitFlags{}

	cmd := &cobra.Command{
		Use:   "hit [file]",
		Short: "Simulate a click and report what it resolves to",
		Long: `Press and release the pointer over the rendered document and report
the source offset under the point, the resulting selection, the surrounding
word and line ranges, the link under the point and the cursor shape.

Coordinates are cells from the top-left corner of the document.`,
		Example: `  mdview hit --at 3,0 README.md
  mdview hit --at 5,2 --clicks 2 README.md
  mdview hit --at 0,0 --drag-to 12,4 README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parsePoint(flags.at)
			if err != nil {
				return err
			}
			release := at
			if flags.dragTo != "" {
				if release, err = parsePoint(flags.dragTo); err != nil {
					return err
				}
			}

			sess, err := opts.openSession(cmd, args)
			if err != nil {
				return err
			}

			report := sess.hit(at, release, max(flags.clicks, 1))
			return pretty.FormatHit(cmd.OutOrStdout(), pretty.NewStyles(sess.colorEnabled), report)
		},
	}

	cmd.Flags().StringVar(&flags.at, "at", "0,0", "point to press at, as x,y")
	cmd.Flags().StringVar(&flags.dragTo, "drag-to", "", "point to drag to before releasing, as x,y")
	cmd.Flags().IntVar(&flags.clicks, "clicks", 1, "click count: 1 places the caret, 2 selects a word, 3 a line")

	return cmd
}

// hit runs a press at at, an optional drag, and a release at release, one
// frame per event, and describes the outcome.
func (s *session) hit(at, release text.Point, clicks int) pretty.HitReport {
	window := markdown.NewHeadlessWindow()
	window.Pointer = at

	s.frame(window)
	window.Dispatch(markdown.MouseDownEvent{Position: at, ClickCount: clicks})

	if release != at {
		s.frame(window)
		window.Dispatch(markdown.MouseMoveEvent{Position: release})
	}

	s.frame(window)
	window.Dispatch(markdown.MouseUpEvent{Position: release})

	rendered, _ := s.frame(window)
	renderedText := rendered.Text

	offset, exact := renderedText.SourceIndexForPosition(at)
	selection := s.view.Selection().Range()

	report := pretty.HitReport{
		Point:     at,
		Clicks:    clicks,
		Offset:    offset,
		Exact:     exact,
		Selection: selection,
		Selected:  renderedText.TextForRange(selection),
		Word:      renderedText.SurroundingWordRange(offset),
		Line:      renderedText.SurroundingLineRange(offset),
		Cursor:    window.Cursor.String(),
	}
	if link, ok := renderedText.LinkForPosition(at); ok {
		report.Link = link.DestinationURL
	}
	for _, url := range window.OpenedURLs {
		s.logger.Debug("link opened", logging.FieldURL, url)
	}
	s.logger.Debug("hit resolved", logging.FieldRange, selection, logging.FieldOffset, offset)

	return report
}
