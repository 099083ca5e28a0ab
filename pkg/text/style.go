package text

// Color is a color understood by the canvas, typically "#rrggbb" or an ANSI
// palette index such as "12". The empty string means "inherit".
type Color string

// IsSet reports whether a color has been chosen.
func (c Color) IsSet() bool {
	return c != ""
}

// TextStyle is a fully resolved style for a run of text.
type TextStyle struct {
	Color         Color
	Background    Color
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool

	// LineHeight is the height of one visual line in layout units.
	LineHeight float64
}

// DefaultTextStyle returns the base style used when nothing else is configured.
func DefaultTextStyle() TextStyle {
	return TextStyle{LineHeight: 1}
}

// TextStyleRefinement overrides the fields of a TextStyle that are set.
type TextStyleRefinement struct {
	Color         *Color
	Background    *Color
	Bold          *bool
	Italic        *bool
	Underline     *bool
	Strikethrough *bool
	LineHeight    *float64
}

// Ref returns a pointer to v, for filling refinement fields inline.
func Ref[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the refinement changes nothing.
func (r TextStyleRefinement) IsEmpty() bool {
	return r == TextStyleRefinement{}
}

// Merge returns r with every field set in other overriding r's value.
func (r TextStyleRefinement) Merge(other TextStyleRefinement) TextStyleRefinement {
	if other.Color != nil {
		r.Color = other.Color
	}
	if other.Background != nil {
		r.Background = other.Background
	}
	if other.Bold != nil {
		r.Bold = other.Bold
	}
	if other.Italic != nil {
		r.Italic = other.Italic
	}
	if other.Underline != nil {
		r.Underline = other.Underline
	}
	if other.Strikethrough != nil {
		r.Strikethrough = other.Strikethrough
	}
	if other.LineHeight != nil {
		r.LineHeight = other.LineHeight
	}
	return r
}

// Refine applies the set fields of r to s.
func (s *TextStyle) Refine(r TextStyleRefinement) {
	if r.Color != nil {
		s.Color = *r.Color
	}
	if r.Background != nil {
		s.Background = *r.Background
	}
	if r.Bold != nil {
		s.Bold = *r.Bold
	}
	if r.Italic != nil {
		s.Italic = *r.Italic
	}
	if r.Underline != nil {
		s.Underline = *r.Underline
	}
	if r.Strikethrough != nil {
		s.Strikethrough = *r.Strikethrough
	}
	if r.LineHeight != nil {
		s.LineHeight = *r.LineHeight
	}
}

// Refined returns a copy of s with r applied.
func (s TextStyle) Refined(r TextStyleRefinement) TextStyle {
	s.Refine(r)
	return s
}

// ToRun returns a run of length bytes in this style.
func (s TextStyle) ToRun(length int) TextRun {
	return TextRun{Len: length, Style: s}
}

// TextRun styles Len bytes of text. Runs are laid end to end.
type TextRun struct {
	Len   int
	Style TextStyle
}

// RunAt returns the style of the run covering byte index, or the last run's
// style when index is past the end. ok is false for an empty run list.
func RunAt(runs []TextRun, index int) (TextStyle, bool) {
	if len(runs) == 0 {
		return TextStyle{}, false
	}
	offset := 0
	for _, run := range runs {
		offset += run.Len
		if index < offset {
			return run.Style, true
		}
	}
	return runs[len(runs)-1].Style, true
}
