package markdown

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/element"
	"github.com/yaklabco/mdview/pkg/highlight"
	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/text"
)

// autoscrollMargin is how many ems and lines around the caret a drag keeps
// visible.
const autoscrollMargin = 3

// MarkdownElement renders a Markdown view for one frame. Call RequestLayout,
// Prepaint and Paint in that order, or Draw to run all three.
//
//nolint:revive // the name mirrors the view it renders
type MarkdownElement struct {
	markdown         *Markdown
	style            MarkdownStyle
	registry         *highlight.Registry
	fallbackLanguage string
	shaper           text.Shaper
	logger           *log.Logger
}

// ElementOption configures a MarkdownElement.
type ElementOption func(*MarkdownElement)

// WithElementRegistry enables highlighting of fenced code blocks.
func WithElementRegistry(registry *highlight.Registry) ElementOption {
	return func(e *MarkdownElement) { e.registry = registry }
}

// WithElementFallback sets the fallback code block language, or FallbackAuto.
func WithElementFallback(name string) ElementOption {
	return func(e *MarkdownElement) { e.fallbackLanguage = name }
}

// WithElementShaper sets the text shaper.
func WithElementShaper(shaper text.Shaper) ElementOption {
	return func(e *MarkdownElement) {
		if shaper != nil {
			e.shaper = shaper
		}
	}
}

// WithElementLogger sets the logger.
func WithElementLogger(logger *log.Logger) ElementOption {
	return func(e *MarkdownElement) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewElement creates an element rendering markdown with style. Use
// Markdown.Element to inherit the view's registry and shaper.
func NewElement(markdown *Markdown, style MarkdownStyle, opts ...ElementOption) *MarkdownElement {
	e := &MarkdownElement{
		markdown: markdown,
		style:    style,
		shaper:   text.NewMonoShaper(),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RequestLayout builds the visual tree of the latest parsed document.
func (e *MarkdownElement) RequestLayout(w Window) *RenderedMarkdown {
	parsed := e.markdown.ParsedMarkdown()
	builder := NewBuilder(e.style, e.shaper,
		WithBuilderLogger(e.logger),
		WithLanguageLoader(func(name, code string) *highlight.Language {
			return e.loadLanguage(w, name, code)
		}))
	return builder.Build(parsed.Events(), parsed.Source())
}

// loadLanguage returns the language for a fenced code block if it is
// already resolved. Otherwise the window is refreshed once it is.
func (e *MarkdownElement) loadLanguage(w Window, name, code string) *highlight.Language {
	if e.registry == nil {
		return nil
	}

	auto := e.fallbackLanguage == FallbackAuto
	if name == "" {
		if !auto {
			return nil
		}
		return e.nowOrRefresh(w, e.registry.DetectLanguage([]byte(code)))
	}

	lookup := e.registry.LanguageForName(name)
	select {
	case <-lookup.Done():
	default:
		return e.nowOrRefresh(w, lookup)
	}
	if lookup.Err() == nil || e.fallbackLanguage == "" {
		return e.nowOrRefresh(w, lookup)
	}

	e.logger.Debug("falling back for code block language",
		logging.FieldLanguage, name,
		logging.FieldFallback, e.fallbackLanguage)
	if auto {
		return e.nowOrRefresh(w, e.registry.DetectLanguage([]byte(code)))
	}
	return e.nowOrRefresh(w, e.registry.LanguageForName(e.fallbackLanguage))
}

func (e *MarkdownElement) nowOrRefresh(w Window, lookup *highlight.Pending[*highlight.Language]) *highlight.Language {
	if lookup == nil {
		return nil
	}
	if lang, ok := lookup.Ready(); ok {
		return lang
	}
	select {
	case <-lookup.Done():
		// Resolved with an error.
		return nil
	default:
	}

	go func() {
		<-lookup.Done()
		if w != nil {
			w.Refresh()
		}
	}()
	return nil
}

// Prepaint lays the tree out at origin within width, returns the hitbox the
// element receives input over and serves a pending autoscroll request.
func (e *MarkdownElement) Prepaint(w Window, rendered *RenderedMarkdown, origin text.Point, width float64) Hitbox {
	size := element.Layout(rendered.Element, origin, width)
	hitbox := Hitbox{Bounds: text.Bounds{Origin: origin, Size: size}}
	e.autoscroll(w, rendered.Text)
	return hitbox
}

func (e *MarkdownElement) autoscroll(w Window, rendered *RenderedText) {
	request := e.markdown.autoscroll
	if request == nil {
		return
	}
	e.markdown.autoscroll = nil

	pos, lineHeight, ok := rendered.PositionForSourceIndex(*request)
	if !ok {
		return
	}
	em := e.shaper.EmWidth(e.style.BaseTextStyle)
	w.RequestAutoscroll(text.FromCorners(
		text.Pt(pos.X-autoscrollMargin*em, pos.Y-autoscrollMargin*lineHeight),
		text.Pt(pos.X+autoscrollMargin*em, pos.Y+autoscrollMargin*lineHeight),
	))
}

// Paint registers the copy action and mouse listeners, then paints the
// tree and the selection onto canvas.
func (e *MarkdownElement) Paint(w Window, rendered *RenderedMarkdown, hitbox Hitbox, canvas element.Canvas) {
	view := e.markdown
	w.OnAction(ActionCopy, func(phase DispatchPhase) {
		if phase == PhaseBubble {
			view.copy(rendered.Text, w)
		}
	})

	e.paintMouseListeners(w, hitbox, rendered.Text)
	element.Paint(rendered.Element, canvas)
	e.paintSelection(hitbox.Bounds, rendered.Text, canvas)
}

// Draw runs a whole frame: build, layout at origin within width, and paint.
func (e *MarkdownElement) Draw(w Window, origin text.Point, width float64, canvas element.Canvas) (*RenderedMarkdown, Hitbox) {
	rendered := e.RequestLayout(w)
	hitbox := e.Prepaint(w, rendered, origin, width)
	e.Paint(w, rendered, hitbox, canvas)
	return rendered, hitbox
}

func (e *MarkdownElement) paintSelection(bounds text.Bounds, rendered *RenderedText, canvas element.Canvas) {
	selection := e.markdown.selection
	start, startHeight, okStart := rendered.PositionForSourceIndex(selection.Start)
	end, endHeight, okEnd := rendered.PositionForSourceIndex(selection.End)
	if !okStart || !okEnd {
		return
	}

	paint := func(b text.Bounds) {
		canvas.PaintQuad(element.Quad{Bounds: b, Background: e.style.SelectionBackground})
	}

	if start.Y == end.Y {
		paint(text.FromCorners(start, text.Pt(end.X, end.Y+endHeight)))
		return
	}

	paint(text.FromCorners(start, text.Pt(bounds.Right(), start.Y+startHeight)))
	if end.Y > start.Y+startHeight {
		paint(text.FromCorners(
			text.Pt(bounds.Left(), start.Y+startHeight),
			text.Pt(bounds.Right(), end.Y),
		))
	}
	paint(text.FromCorners(text.Pt(bounds.Left(), end.Y), text.Pt(end.X, end.Y+endHeight)))
}

func (e *MarkdownElement) paintMouseListeners(w Window, hitbox Hitbox, rendered *RenderedText) {
	view := e.markdown

	isHoveringLink := false
	if hitbox.IsHovered(w) && !view.selection.Pending {
		_, isHoveringLink = rendered.LinkForPosition(w.MousePosition())
	}
	if isHoveringLink {
		w.SetCursorStyle(CursorPointingHand, hitbox)
	} else {
		w.SetCursorStyle(CursorIBeam, hitbox)
	}

	w.OnMouseEvent(func(event MouseEvent, phase DispatchPhase) {
		switch ev := event.(type) {
		case MouseDownEvent:
			e.onMouseDown(w, hitbox, rendered, ev, phase)
		case MouseMoveEvent:
			e.onMouseMove(w, hitbox, rendered, ev, phase, isHoveringLink)
		case MouseUpEvent:
			e.onMouseUp(w, rendered, ev, phase)
		}
	})
}

func (e *MarkdownElement) onMouseDown(w Window, hitbox Hitbox, rendered *RenderedText, ev MouseDownEvent, phase DispatchPhase) {
	view := e.markdown

	if !hitbox.IsHovered(w) {
		if phase == PhaseCapture {
			view.selection = Selection{}
			view.pressedLink = nil
			w.Refresh()
		}
		return
	}
	if phase != PhaseBubble {
		return
	}

	if link, ok := rendered.LinkForPosition(ev.Position); ok {
		view.pressedLink = &link
	} else {
		sourceIndex, _ := rendered.SourceIndexForPosition(ev.Position)
		var r mdast.SourceRange
		switch ev.ClickCount {
		case 2:
			r = rendered.SurroundingWordRange(sourceIndex)
		case 3:
			r = rendered.SurroundingLineRange(sourceIndex)
		default:
			r = mdast.NewRange(sourceIndex, sourceIndex)
		}
		view.selection = SelectRange(r)
		w.Focus()
		w.PreventDefault()
	}
	w.Refresh()
}

func (e *MarkdownElement) onMouseMove(w Window, hitbox Hitbox, rendered *RenderedText, ev MouseMoveEvent, phase DispatchPhase, wasHoveringLink bool) {
	if phase == PhaseCapture {
		return
	}
	view := e.markdown

	if view.selection.Pending {
		sourceIndex, _ := rendered.SourceIndexForPosition(ev.Position)
		view.selection.SetHead(sourceIndex)
		view.autoscroll = &sourceIndex
		w.Refresh()
		return
	}

	isHoveringLink := false
	if hitbox.IsHovered(w) {
		_, isHoveringLink = rendered.LinkForPosition(ev.Position)
	}
	if isHoveringLink != wasHoveringLink {
		w.Refresh()
	}
}

func (e *MarkdownElement) onMouseUp(w Window, rendered *RenderedText, ev MouseUpEvent, phase DispatchPhase) {
	view := e.markdown

	if phase == PhaseBubble {
		pressed := view.pressedLink
		view.pressedLink = nil
		if pressed == nil {
			return
		}
		if link, ok := rendered.LinkForPosition(ev.Position); ok && link == *pressed {
			w.OpenURL(pressed.DestinationURL)
		}
		return
	}

	if view.selection.Pending {
		view.selection.Pending = false
		if hasPrimarySelection() {
			w.WriteToPrimary(rendered.TextForRange(view.selection.Range()))
		}
		w.Refresh()
	}
}

func hasPrimarySelection() bool {
	return runtime.GOOS == "linux" || runtime.GOOS == "freebsd"
}
