package element

import "github.com/yaklabco/mdview/pkg/text"

// Quad is a filled and bordered rectangle.
type Quad struct {
	Bounds       text.Bounds
	Background   text.Color
	BorderColor  text.Color
	BorderLeft   float64
	BorderBottom float64
	Rounded      bool
}

// IsVisible reports whether painting the quad would change anything.
func (q Quad) IsVisible() bool {
	return q.Background.IsSet() || q.BorderLeft > 0 || q.BorderBottom > 0
}

// Canvas receives paint commands. Backgrounds and text are painted in tree
// order, so a parent's background lies under its children. Borders are painted
// when an element is left, on top of everything inside it.
type Canvas interface {
	PaintQuad(q Quad)
	PaintText(layout text.Layout)
}

// Paint paints root and its subtree onto canvas.
func Paint(root *Element, canvas Canvas) {
	//nolint:errcheck,revive // the callbacks never return errors
	WalkWithContext(root, func(e *Element) error {
		switch e.Kind {
		case KindText:
			if e.Layout != nil {
				canvas.PaintText(e.Layout)
			}
		case KindDiv:
			if e.Style.Background.IsSet() {
				canvas.PaintQuad(Quad{Bounds: e.bounds, Background: e.Style.Background, Rounded: e.Style.Rounded})
			}
		}
		return nil
	}, func(e *Element) error {
		if e.Kind != KindDiv {
			return nil
		}
		quad := Quad{
			Bounds:       e.bounds,
			BorderColor:  e.Style.BorderColor,
			BorderLeft:   e.Style.BorderLeft,
			BorderBottom: e.Style.BorderBottom,
		}
		if quad.IsVisible() {
			canvas.PaintQuad(quad)
		}
		return nil
	})
}
