package markdown

import (
	"slices"
	"sync/atomic"

	"github.com/yaklabco/mdview/pkg/text"
)

// DispatchPhase is the pass a mouse event is delivered in. Capture runs
// before Bubble and reaches every listener regardless of hit testing.
type DispatchPhase uint8

// Dispatch phases.
const (
	PhaseCapture DispatchPhase = iota
	PhaseBubble
)

// MouseDownEvent is a button press.
type MouseDownEvent struct {
	Position   text.Point
	ClickCount int
}

// MouseMoveEvent is a pointer move, with or without a button held.
type MouseMoveEvent struct {
	Position text.Point
}

// MouseUpEvent is a button release.
type MouseUpEvent struct {
	Position text.Point
}

// MouseEvent is one of MouseDownEvent, MouseMoveEvent or MouseUpEvent.
type MouseEvent interface {
	MousePosition() text.Point
}

// MousePosition implements MouseEvent.
func (e MouseDownEvent) MousePosition() text.Point { return e.Position }

// MousePosition implements MouseEvent.
func (e MouseMoveEvent) MousePosition() text.Point { return e.Position }

// MousePosition implements MouseEvent.
func (e MouseUpEvent) MousePosition() text.Point { return e.Position }

// MouseListener handles a mouse event in one phase.
type MouseListener func(event MouseEvent, phase DispatchPhase)

// Action names a keyboard-bound command.
type Action string

// ActionCopy copies the selection to the clipboard.
const ActionCopy Action = "markdown::Copy"

// ActionListener handles an action in one phase.
type ActionListener func(phase DispatchPhase)

// CursorStyle is the pointer shape over a hitbox.
type CursorStyle uint8

// Cursor styles.
const (
	CursorDefault CursorStyle = iota
	CursorIBeam
	CursorPointingHand
)

func (c CursorStyle) String() string {
	switch c {
	case CursorIBeam:
		return "IBeam"
	case CursorPointingHand:
		return "PointingHand"
	default:
		return "Default"
	}
}

// Hitbox is the area an element receives pointer input over.
type Hitbox struct {
	Bounds text.Bounds
}

// IsHovered reports whether the window's pointer is over the hitbox.
func (h Hitbox) IsHovered(w Window) bool {
	return h.Bounds.Contains(w.MousePosition())
}

// Window is what an element needs from the UI it is embedded in.
// Listeners registered during a paint stay active until the next frame.
type Window interface {
	MousePosition() text.Point
	SetCursorStyle(style CursorStyle, hitbox Hitbox)
	OnMouseEvent(listener MouseListener)
	OnAction(action Action, listener ActionListener)

	Focus()
	PreventDefault()
	Refresh()

	WriteToClipboard(text string)
	WriteToPrimary(text string)
	OpenURL(url string)
	RequestAutoscroll(bounds text.Bounds)
}

// HeadlessWindow is a Window with no display. It records what elements ask
// of it and dispatches synthetic input, which makes it suitable for tests
// and command line tools.
type HeadlessWindow struct {
	Pointer     text.Point
	Cursor      CursorStyle
	Clipboard   string
	Primary     string
	OpenedURLs  []string
	Autoscrolls []text.Bounds
	Focused     bool
	Prevented   bool

	refreshes       atomic.Int64
	mouseListeners  []MouseListener
	actionListeners map[Action][]ActionListener
}

// NewHeadlessWindow creates a window with the pointer at the origin.
func NewHeadlessWindow() *HeadlessWindow {
	return &HeadlessWindow{actionListeners: make(map[Action][]ActionListener)}
}

// BeginFrame drops the listeners of the previous frame.
func (w *HeadlessWindow) BeginFrame() {
	w.mouseListeners = nil
	clear(w.actionListeners)
	w.Prevented = false
}

// Dispatch moves the pointer to the event position and delivers the event
// to every listener, first in the capture phase and then, in reverse
// registration order, in the bubble phase.
func (w *HeadlessWindow) Dispatch(event MouseEvent) {
	w.Pointer = event.MousePosition()
	w.Prevented = false

	listeners := slices.Clone(w.mouseListeners)
	for _, listener := range listeners {
		listener(event, PhaseCapture)
	}
	for _, listener := range slices.Backward(listeners) {
		listener(event, PhaseBubble)
	}
}

// DispatchAction delivers an action in both phases.
func (w *HeadlessWindow) DispatchAction(action Action) {
	listeners := slices.Clone(w.actionListeners[action])
	for _, listener := range listeners {
		listener(PhaseCapture)
	}
	for _, listener := range slices.Backward(listeners) {
		listener(PhaseBubble)
	}
}

// MousePosition implements Window.
func (w *HeadlessWindow) MousePosition() text.Point { return w.Pointer }

// SetCursorStyle implements Window.
func (w *HeadlessWindow) SetCursorStyle(style CursorStyle, hitbox Hitbox) {
	if hitbox.IsHovered(w) {
		w.Cursor = style
	}
}

// OnMouseEvent implements Window.
func (w *HeadlessWindow) OnMouseEvent(listener MouseListener) {
	w.mouseListeners = append(w.mouseListeners, listener)
}

// OnAction implements Window.
func (w *HeadlessWindow) OnAction(action Action, listener ActionListener) {
	if w.actionListeners == nil {
		w.actionListeners = make(map[Action][]ActionListener)
	}
	w.actionListeners[action] = append(w.actionListeners[action], listener)
}

// Focus implements Window.
func (w *HeadlessWindow) Focus() { w.Focused = true }

// PreventDefault implements Window.
func (w *HeadlessWindow) PreventDefault() { w.Prevented = true }

// Refresh implements Window. It may be called from any goroutine.
func (w *HeadlessWindow) Refresh() { w.refreshes.Add(1) }

// Refreshes returns how many redraws have been requested.
func (w *HeadlessWindow) Refreshes() int { return int(w.refreshes.Load()) }

// WriteToClipboard implements Window.
func (w *HeadlessWindow) WriteToClipboard(s string) { w.Clipboard = s }

// WriteToPrimary implements Window.
func (w *HeadlessWindow) WriteToPrimary(s string) { w.Primary = s }

// OpenURL implements Window.
func (w *HeadlessWindow) OpenURL(url string) { w.OpenedURLs = append(w.OpenedURLs, url) }

// RequestAutoscroll implements Window.
func (w *HeadlessWindow) RequestAutoscroll(bounds text.Bounds) {
	w.Autoscrolls = append(w.Autoscrolls, bounds)
}
