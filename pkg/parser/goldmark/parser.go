// Package goldmark turns markdown source into a flat mdast event stream using
// the goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/mdast"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser produces event streams from markdown source.
type Parser struct {
	flavor    string
	linksOnly bool
	md        goldmark.Markdown
	links     *linkifier
	logger    *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for warnings about skipped constructs.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor string, opts ...Option) *Parser {
	f := flavorOrDefault(flavor)
	p := &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewLinksOnly creates a parser that treats its input as plain text and only
// recognizes bare URLs and e-mail addresses.
func NewLinksOnly(opts ...Option) *Parser {
	p := &Parser{
		flavor:    FlavorCommonMark,
		linksOnly: true,
		links:     newLinkifier(),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// LinksOnly reports whether the parser runs in links-only mode.
func (p *Parser) LinksOnly() bool {
	return p.linksOnly
}

// Parse converts markdown source into an ordered event stream.
//
// Returns nil and an error if the context is cancelled or the resulting
// stream is not well nested.
func (p *Parser) Parse(ctx context.Context, source string) ([]mdast.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	content := []byte(source)
	var events []mdast.Event
	if p.linksOnly {
		events = p.links.linkEvents(content)
	} else {
		reader := text.NewReader(content)
		doc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse cancelled: %w", err)
		}

		events = newEmitter(content, p.logger).emit(doc)
	}

	if err := mdast.ValidateEvents(events, len(content)); err != nil {
		return nil, fmt.Errorf("invalid event stream: %w", err)
	}

	return events, nil
}

// ParseDocument parses source into an immutable ParsedDocument.
func (p *Parser) ParseDocument(ctx context.Context, source string) (*mdast.ParsedDocument, error) {
	events, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return mdast.NewParsedDocument(source, events), nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}
