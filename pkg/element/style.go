package element

import "github.com/yaklabco/mdview/pkg/text"

// Edges holds one value per side of a box.
type Edges struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// EdgesRefinement overrides the sides that are set.
type EdgesRefinement struct {
	Top    *float64
	Right  *float64
	Bottom *float64
	Left   *float64
}

func (e *Edges) refine(r EdgesRefinement) {
	if r.Top != nil {
		e.Top = *r.Top
	}
	if r.Right != nil {
		e.Right = *r.Right
	}
	if r.Bottom != nil {
		e.Bottom = *r.Bottom
	}
	if r.Left != nil {
		e.Left = *r.Left
	}
}

func (e EdgesRefinement) merge(other EdgesRefinement) EdgesRefinement {
	if other.Top != nil {
		e.Top = other.Top
	}
	if other.Right != nil {
		e.Right = other.Right
	}
	if other.Bottom != nil {
		e.Bottom = other.Bottom
	}
	if other.Left != nil {
		e.Left = other.Left
	}
	return e
}

// Direction is the axis children are stacked along.
type Direction uint8

// Directions.
const (
	Column Direction = iota
	Row
)

// Style is the box style of an element.
type Style struct {
	Margin  Edges
	Padding Edges

	// Borders are drawn inside the box. Only the left and bottom sides are
	// supported.
	BorderLeft   float64
	BorderBottom float64
	BorderColor  text.Color

	Background text.Color
	Rounded    bool

	Direction Direction
	Gap       float64

	// FlexGrow shares the free space of a Row parent between children.
	FlexGrow float64
}

// StyleRefinement overrides the fields of a Style that are set. Text carries
// a text refinement for the element's contents; Style.Refine ignores it and
// the renderer applies it to the runs it shapes.
type StyleRefinement struct {
	Margin  EdgesRefinement
	Padding EdgesRefinement

	BorderLeft   *float64
	BorderBottom *float64
	BorderColor  *text.Color

	Background *text.Color
	Rounded    *bool

	Direction *Direction
	Gap       *float64
	FlexGrow  *float64

	Text *text.TextStyleRefinement
}

// Refine applies the set fields of r to s.
func (s *Style) Refine(r StyleRefinement) {
	s.Margin.refine(r.Margin)
	s.Padding.refine(r.Padding)
	if r.BorderLeft != nil {
		s.BorderLeft = *r.BorderLeft
	}
	if r.BorderBottom != nil {
		s.BorderBottom = *r.BorderBottom
	}
	if r.BorderColor != nil {
		s.BorderColor = *r.BorderColor
	}
	if r.Background != nil {
		s.Background = *r.Background
	}
	if r.Rounded != nil {
		s.Rounded = *r.Rounded
	}
	if r.Direction != nil {
		s.Direction = *r.Direction
	}
	if r.Gap != nil {
		s.Gap = *r.Gap
	}
	if r.FlexGrow != nil {
		s.FlexGrow = *r.FlexGrow
	}
}

// Merge returns r with every field set in other overriding r's value.
func (r StyleRefinement) Merge(other StyleRefinement) StyleRefinement {
	r.Margin = r.Margin.merge(other.Margin)
	r.Padding = r.Padding.merge(other.Padding)
	if other.BorderLeft != nil {
		r.BorderLeft = other.BorderLeft
	}
	if other.BorderBottom != nil {
		r.BorderBottom = other.BorderBottom
	}
	if other.BorderColor != nil {
		r.BorderColor = other.BorderColor
	}
	if other.Background != nil {
		r.Background = other.Background
	}
	if other.Rounded != nil {
		r.Rounded = other.Rounded
	}
	if other.Direction != nil {
		r.Direction = other.Direction
	}
	if other.Gap != nil {
		r.Gap = other.Gap
	}
	if other.FlexGrow != nil {
		r.FlexGrow = other.FlexGrow
	}
	if other.Text != nil {
		merged := other.Text
		if r.Text != nil {
			m := r.Text.Merge(*other.Text)
			merged = &m
		}
		r.Text = merged
	}
	return r
}

// TextStyle returns the text refinement, or an empty one.
func (r StyleRefinement) TextStyle() text.TextStyleRefinement {
	if r.Text == nil {
		return text.TextStyleRefinement{}
	}
	return *r.Text
}
