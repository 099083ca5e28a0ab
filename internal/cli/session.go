package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdview/internal/configloader"
	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/internal/ui/pretty"
	"github.com/yaklabco/mdview/pkg/config"
	"github.com/yaklabco/mdview/pkg/fsutil"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/markdown"
	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

// defaultWidth is used when neither the config nor the terminal gives one.
const defaultWidth = 80

// stdinArg names standard input as the document.
const stdinArg = "-"

var (
	// ErrConfigLoad is returned when configuration cannot be resolved.
	ErrConfigLoad = errors.New("failed to load configuration")

	// ErrReadInput is returned when the document cannot be read.
	ErrReadInput = errors.New("failed to read input")
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	debug            bool
	configPath       string
	color            string
	width            int
	flavor           string
	linksOnly        bool
	fallbackLanguage string
	syntaxTheme      string
}

// cliConfig returns the configuration layer made of explicitly set flags.
func (o *rootOptions) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	flags := cmd.Flags()

	if flags.Changed("flavor") {
		cfg.Flavor = config.Flavor(o.flavor)
	}
	if flags.Changed("links-only") {
		linksOnly := o.linksOnly
		cfg.LinksOnly = &linksOnly
	}
	if flags.Changed("width") {
		cfg.Width = o.width
	}
	if flags.Changed("fallback-language") {
		cfg.FallbackLanguage = o.fallbackLanguage
	}
	if flags.Changed("syntax-theme") {
		cfg.Theme.Syntax = o.syntaxTheme
	}
	if flags.Changed("color") {
		cfg.Color = config.ColorMode(o.color)
	}
	if o.debug {
		cfg.LogLevel = config.LogLevelDebug
	}
	return cfg
}

// loadConfig resolves the configuration for cmd and applies its log level.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*configloader.LoadResult, error) {
	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: o.configPath,
		CLIConfig:    o.cliConfig(cmd),
	})
	if err != nil {
		return nil, errors.Join(ErrConfigLoad, err)
	}

	cfg := result.Config
	logging.SetLevel(cfg.LogLevel)
	logger := logging.FromContext(ctx)

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", result.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldLinksOnly, cfg.IsLinksOnly(),
		logging.FieldWidth, cfg.Width,
		logging.FieldTheme, cfg.Theme.Syntax,
		logging.FieldWorkingDir, workDir,
	)

	return result, nil
}

// session is one loaded document ready to be drawn.
type session struct {
	cfg          *config.Config
	view         *markdown.Markdown
	width        int
	colorEnabled bool
	logger       *log.Logger
}

// openSession loads the configuration, reads the document named by args and
// waits until it is parsed and its code block languages are resolved.
func (o *rootOptions) openSession(cmd *cobra.Command, args []string) (*session, error) {
	result, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	source, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}

	ctx := logging.WithDocument(commandContext(cmd), documentName(args))
	cmd.SetContext(ctx)
	logger := logging.FromContext(ctx)

	registry := highlight.NewRegistry(highlight.WithLogger(logger))
	viewOpts := []markdown.Option{
		markdown.WithFlavor(string(cfg.Flavor)),
		markdown.WithLanguageRegistry(registry),
		markdown.WithFallbackLanguage(cfg.FallbackLanguage),
		markdown.WithLogger(logger),
	}

	var view *markdown.Markdown
	if cfg.IsLinksOnly() {
		view = markdown.NewText(source, styleFromConfig(cfg), viewOpts...)
	} else {
		view = markdown.New(source, styleFromConfig(cfg), viewOpts...)
	}

	if err := view.Wait(ctx); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := warmLanguages(ctx, registry, view.ParsedMarkdown(), cfg.FallbackLanguage); err != nil {
		return nil, err
	}

	logger.Debug("document parsed",
		logging.FieldBytes, len(source),
		logging.FieldEvents, len(view.ParsedMarkdown().Events()))

	return &session{
		cfg:          cfg,
		view:         view,
		width:        resolveWidth(cfg),
		colorEnabled: pretty.IsColorEnabled(string(cfg.Color), cmd.OutOrStdout()),
		logger:       logger,
	}, nil
}

// frame draws one frame of the view into a fresh canvas.
func (s *session) frame(w *markdown.HeadlessWindow) (*markdown.RenderedMarkdown, *pretty.Canvas) {
	canvas := pretty.NewCanvas(s.width)
	w.BeginFrame()
	rendered, _ := s.view.Element().Draw(w, text.Pt(0, 0), float64(s.width), canvas)
	return rendered, canvas
}

// warmLanguages resolves every language the document's fenced code blocks
// will ask for, so the first frame is drawn fully highlighted.
func warmLanguages(ctx context.Context, registry *highlight.Registry, doc *mdast.ParsedDocument, fallback string) error {
	events := doc.Events()
	source := doc.Source()

	for i, event := range events {
		if event.Kind != mdast.EventStart || event.Tag.Kind != mdast.TagCodeBlock ||
			event.Tag.CodeBlock != mdast.CodeBlockFenced {
			continue
		}

		name := event.Tag.Language
		if name != "" {
			if _, err := registry.LanguageForName(name).Wait(ctx); err == nil {
				continue
			}
			if ctx.Err() != nil {
				return fmt.Errorf("resolve language: %w", ctx.Err())
			}
			if fallback == "" {
				continue
			}
		} else if fallback != markdown.FallbackAuto {
			continue
		}

		var lookup *highlight.Pending[*highlight.Language]
		if fallback == markdown.FallbackAuto {
			lookup = registry.DetectLanguage([]byte(fencedText(events[i+1:], source)))
		} else {
			lookup = registry.LanguageForName(fallback)
		}
		if lookup == nil {
			continue
		}
		if _, err := lookup.Wait(ctx); err != nil && ctx.Err() != nil {
			return fmt.Errorf("resolve language: %w", ctx.Err())
		}
	}
	return nil
}

// fencedText joins the text of a code block given the events after its start.
func fencedText(rest []mdast.Event, source string) string {
	var code []byte
	for _, event := range rest {
		if event.Kind == mdast.EventEnd {
			break
		}
		if event.Kind == mdast.EventText {
			code = append(code, event.Range.Text(source)...)
		}
	}
	return string(code)
}

// readInput returns the document named by args: a path, "-" or nothing for
// standard input.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Join(ErrReadInput, err)
		}
		return string(data), nil
	}

	data, info, err := fsutil.ReadFile(commandContext(cmd), args[0])
	if err != nil {
		return "", errors.Join(ErrReadInput, err)
	}
	logging.FromContext(cmd.Context()).Debug("read document", logging.FieldPath, info.Path, logging.FieldBytes, info.Size)
	return string(data), nil
}

// documentName is the name logged for the document named by args.
func documentName(args []string) string {
	if len(args) == 0 {
		return stdinArg
	}
	return args[0]
}

// resolveWidth picks the configured width, else the terminal width, else
// defaultWidth.
func resolveWidth(cfg *config.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
