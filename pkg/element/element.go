// Package element provides a small retained tree of styled boxes and text
// leaves, with block and row layout and a paint traversal.
package element

import "github.com/yaklabco/mdview/pkg/text"

// Kind classifies an element.
type Kind uint8

// Element kinds.
const (
	KindDiv Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "Text"
	}
	return "Div"
}

// Element is a node of the visual tree: either a styled box (div) holding
// children, or a leaf holding shaped text.
type Element struct {
	Kind  Kind
	Style Style

	// Layout is the shaped text of a text leaf.
	Layout text.Layout

	// Name identifies the element in debug output.
	Name string

	// Tree structure pointers.
	Parent     *Element
	FirstChild *Element
	LastChild  *Element
	Prev       *Element
	Next       *Element

	bounds text.Bounds
}

// Div creates an empty box.
func Div() *Element {
	return &Element{Kind: KindDiv}
}

// Text creates a leaf for shaped text.
func Text(layout text.Layout) *Element {
	return &Element{Kind: KindText, Layout: layout}
}

// Bounds returns the border box assigned by the last Layout call.
func (e *Element) Bounds() text.Bounds {
	return e.bounds
}

// HasChildren returns true if this element has any children.
func (e *Element) HasChildren() bool {
	return e.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (e *Element) ChildCount() int {
	count := 0
	for child := e.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (e *Element) Children() []*Element {
	var children []*Element
	for child := e.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// AppendChild appends a child element to a parent, detaching it from any
// previous parent first.
func AppendChild(parent, child *Element) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Element) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// Child appends child and returns e, for building trees fluently.
func (e *Element) Child(child *Element) *Element {
	AppendChild(e, child)
	return e
}

// Named sets the debug name.
func (e *Element) Named(name string) *Element {
	e.Name = name
	return e
}

// Refine applies a style refinement.
func (e *Element) Refine(r StyleRefinement) *Element {
	e.Style.Refine(r)
	return e
}

// MT sets the top margin.
func (e *Element) MT(v float64) *Element {
	e.Style.Margin.Top = v
	return e
}

// MB sets the bottom margin.
func (e *Element) MB(v float64) *Element {
	e.Style.Margin.Bottom = v
	return e
}

// MY sets the top and bottom margins.
func (e *Element) MY(v float64) *Element {
	e.Style.Margin.Top = v
	e.Style.Margin.Bottom = v
	return e
}

// PL sets the left padding.
func (e *Element) PL(v float64) *Element {
	e.Style.Padding.Left = v
	return e
}

// PX sets the left and right padding.
func (e *Element) PX(v float64) *Element {
	e.Style.Padding.Left = v
	e.Style.Padding.Right = v
	return e
}

// PY sets the top and bottom padding.
func (e *Element) PY(v float64) *Element {
	e.Style.Padding.Top = v
	e.Style.Padding.Bottom = v
	return e
}

// BorderL sets the left border width.
func (e *Element) BorderL(w float64) *Element {
	e.Style.BorderLeft = w
	return e
}

// BorderB sets the bottom border width.
func (e *Element) BorderB(w float64) *Element {
	e.Style.BorderBottom = w
	return e
}

// BorderColor sets the border color.
func (e *Element) BorderColor(c text.Color) *Element {
	e.Style.BorderColor = c
	return e
}

// Bg sets the background color.
func (e *Element) Bg(c text.Color) *Element {
	e.Style.Background = c
	return e
}

// Rounded rounds the corners of the background.
func (e *Element) Rounded() *Element {
	e.Style.Rounded = true
	return e
}

// HFlex lays children out in a row.
func (e *Element) HFlex() *Element {
	e.Style.Direction = Row
	return e
}

// Gap sets the space between children.
func (e *Element) Gap(v float64) *Element {
	e.Style.Gap = v
	return e
}

// Flex1 makes the element take the free space of a row.
func (e *Element) Flex1() *Element {
	e.Style.FlexGrow = 1
	return e
}
