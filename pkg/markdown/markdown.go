// Package markdown renders markdown documents into selectable, hit-testable
// text. A Markdown view owns the source and reparses it in the background;
// each frame a MarkdownElement builds the visual tree, lays it out, paints it
// and handles pointer input against the rendered text.
package markdown

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/mdast"
	goldmarkparser "github.com/yaklabco/mdview/pkg/parser/goldmark"
	"github.com/yaklabco/mdview/pkg/text"
)

// FallbackAuto as the fallback language detects the language of code blocks
// from their contents.
const FallbackAuto = "auto"

// Markdown is a markdown document view. The source and parsed document are
// safe to use from any goroutine; the interaction state (selection, pressed
// link, autoscroll request) belongs to the goroutine that paints and
// dispatches input.
type Markdown struct {
	scheduler *Scheduler

	selection   Selection
	pressedLink *RenderedLink
	autoscroll  *int

	style            MarkdownStyle
	registry         *highlight.Registry
	fallbackLanguage string
	shaper           text.Shaper
	logger           *log.Logger
	linksOnly        bool
}

type viewConfig struct {
	flavor           string
	registry         *highlight.Registry
	fallbackLanguage string
	shaper           text.Shaper
	exec             Executor
	logger           *log.Logger
	onUpdate         func()
}

// Option configures a Markdown view.
type Option func(*viewConfig)

// WithLanguageRegistry enables syntax highlighting of fenced code blocks.
func WithLanguageRegistry(registry *highlight.Registry) Option {
	return func(c *viewConfig) {
		c.registry = registry
	}
}

// WithFallbackLanguage sets the language used for code blocks whose fence
// names an unknown language. FallbackAuto detects it from the code instead,
// and also applies to fences without a language.
func WithFallbackLanguage(name string) Option {
	return func(c *viewConfig) {
		c.fallbackLanguage = name
	}
}

// WithShaper sets the text shaper. The default is a monospace cell grid.
func WithShaper(shaper text.Shaper) Option {
	return func(c *viewConfig) {
		if shaper != nil {
			c.shaper = shaper
		}
	}
}

// WithExecutor sets where background parses run.
func WithExecutor(exec Executor) Option {
	return func(c *viewConfig) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *viewConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFlavor selects the markdown flavor, "commonmark" or "gfm".
func WithFlavor(flavor string) Option {
	return func(c *viewConfig) {
		c.flavor = flavor
	}
}

// WithOnUpdate registers a callback run, on a background goroutine, after
// every completed parse.
func WithOnUpdate(fn func()) Option {
	return func(c *viewConfig) {
		c.onUpdate = fn
	}
}

// New creates a view of markdown source and starts parsing it.
func New(source string, style MarkdownStyle, opts ...Option) *Markdown {
	cfg := newViewConfig(opts)
	p := goldmarkparser.New(cfg.flavor, goldmarkparser.WithLogger(cfg.logger))
	return newMarkdown(source, style, cfg, p, false)
}

// NewText creates a view of plain text in which only bare URLs and e-mail
// addresses are recognised, as links.
func NewText(source string, style MarkdownStyle, opts ...Option) *Markdown {
	cfg := newViewConfig(opts)
	p := goldmarkparser.NewLinksOnly(goldmarkparser.WithLogger(cfg.logger))
	return newMarkdown(source, style, cfg, p, true)
}

func newViewConfig(opts []Option) viewConfig {
	cfg := viewConfig{
		flavor: goldmarkparser.FlavorGFM,
		shaper: text.NewMonoShaper(),
		exec:   GoExecutor{},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func newMarkdown(source string, style MarkdownStyle, cfg viewConfig, p *goldmarkparser.Parser, linksOnly bool) *Markdown {
	m := &Markdown{
		style:            style,
		registry:         cfg.registry,
		fallbackLanguage: cfg.fallbackLanguage,
		shaper:           cfg.shaper,
		logger:           cfg.logger,
		linksOnly:        linksOnly,
	}

	schedOpts := []SchedulerOption{
		WithSchedulerExecutor(cfg.exec),
		WithSchedulerLogger(cfg.logger),
	}
	if cfg.onUpdate != nil {
		schedOpts = append(schedOpts, OnUpdate(cfg.onUpdate))
	}
	m.scheduler = NewScheduler(source, p.ParseDocument, schedOpts...)

	return m
}

// Source returns the current source text.
func (m *Markdown) Source() string {
	return m.scheduler.Source()
}

// ParsedMarkdown returns the latest parsed snapshot. It lags behind Source
// while a parse is running.
func (m *Markdown) ParsedMarkdown() *mdast.ParsedDocument {
	return m.scheduler.Parsed()
}

// LinksOnly reports whether the view was created by NewText.
func (m *Markdown) LinksOnly() bool {
	return m.linksOnly
}

// Append adds text to the end of the source and reparses.
func (m *Markdown) Append(text string) {
	m.scheduler.Append(text)
}

// Reset replaces the source. Nothing happens when it is unchanged; otherwise
// the selection, pressed link and autoscroll request are cleared as well.
func (m *Markdown) Reset(source string) {
	if !m.scheduler.Reset(source) {
		return
	}
	m.selection = Selection{}
	m.pressedLink = nil
	m.autoscroll = nil
}

// Wait blocks until the parsed document reflects the current source.
func (m *Markdown) Wait(ctx context.Context) error {
	return m.scheduler.Wait(ctx)
}

// Selection returns the current selection.
func (m *Markdown) Selection() Selection {
	return m.selection
}

// SetSelection replaces the selection.
func (m *Markdown) SetSelection(s Selection) {
	m.selection = s
}

// Element returns the element rendering this view for one frame.
func (m *Markdown) Element() *MarkdownElement {
	return NewElement(m, m.style,
		WithElementRegistry(m.registry),
		WithElementFallback(m.fallbackLanguage),
		WithElementShaper(m.shaper),
		WithElementLogger(m.logger))
}

func (m *Markdown) copy(rendered *RenderedText, w Window) {
	if m.selection.IsEmpty() {
		return
	}
	w.WriteToClipboard(rendered.TextForRange(m.selection.Range()))
}
