package text

// Fragment is one visual line of a wrapped layout. Start and End are byte
// offsets into the layout text; a forced line break is not part of either
// neighbouring fragment.
type Fragment struct {
	Start  int
	End    int
	Origin Point
	Width  float64
}

// Layout is shaped text that can be placed and queried geometrically.
type Layout interface {
	// Text returns the shaped text.
	Text() string

	// Runs returns the style runs, whose lengths sum to len(Text()).
	Runs() []TextRun

	// LineHeight returns the height of one visual line.
	LineHeight() float64

	// Measure returns the size the text needs when wrapped at maxWidth,
	// using the widest visual line as the width.
	Measure(maxWidth float64) Size

	// Arrange wraps the text to width and places it at origin.
	Arrange(origin Point, width float64) Size

	// Bounds returns the arranged rectangle.
	Bounds() Bounds

	// Fragments returns the visual lines of the arranged text.
	Fragments() []Fragment

	// IndexForPosition returns the byte index under p. exact is false when p
	// is outside the text; the index is then the closest one.
	IndexForPosition(p Point) (index int, exact bool)

	// PositionForIndex returns the top-left caret position for a byte index.
	PositionForIndex(index int) (Point, bool)
}

// Shaper turns styled text into layouts.
type Shaper interface {
	Shape(text string, runs []TextRun) Layout

	// EmWidth returns the width of the letter 'm' in the given style.
	EmWidth(style TextStyle) float64
}
