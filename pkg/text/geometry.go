// Package text provides the geometry, text style and shaping primitives used to
// lay out rendered Markdown. Units are abstract: the bundled MonoShaper treats
// one unit as one terminal cell.
package text

import "fmt"

// Point is a position in layout space. Y grows downwards.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p translated by -other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a width and height.
type Size struct {
	Width  float64
	Height float64
}

// Bounds is an axis-aligned rectangle. It contains points on its top and left
// edges but not on its bottom and right edges.
type Bounds struct {
	Origin Point
	Size   Size
}

// FromCorners returns the rectangle spanning two corners in any order.
func FromCorners(a, b Point) Bounds {
	left, right := min(a.X, b.X), max(a.X, b.X)
	top, bottom := min(a.Y, b.Y), max(a.Y, b.Y)
	return Bounds{
		Origin: Point{X: left, Y: top},
		Size:   Size{Width: right - left, Height: bottom - top},
	}
}

// Top returns the y coordinate of the top edge.
func (b Bounds) Top() float64 { return b.Origin.Y }

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 { return b.Origin.Y + b.Size.Height }

// Left returns the x coordinate of the left edge.
func (b Bounds) Left() float64 { return b.Origin.X }

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 { return b.Origin.X + b.Size.Width }

// Contains reports whether p lies inside the rectangle.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left() && p.X < b.Right() && p.Y >= b.Top() && p.Y < b.Bottom()
}

// IsEmpty reports whether the rectangle has no area.
func (b Bounds) IsEmpty() bool {
	return b.Size.Width <= 0 || b.Size.Height <= 0
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%s %gx%g]", b.Origin, b.Size.Width, b.Size.Height)
}
