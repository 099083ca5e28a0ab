package element

import (
	"math"

	"github.com/yaklabco/mdview/pkg/text"
)

// Layout places root and its descendants starting at origin, within width.
// It returns the outer size of root including its margins.
func Layout(root *Element, origin text.Point, width float64) text.Size {
	if root == nil {
		return text.Size{}
	}
	return root.arrange(origin, width)
}

// arrange assigns bounds to e and its subtree and returns e's margin box size.
func (e *Element) arrange(origin text.Point, width float64) text.Size {
	if e.Kind == KindText {
		if e.Layout == nil {
			e.bounds = text.Bounds{Origin: origin}
			return text.Size{}
		}
		size := e.Layout.Arrange(origin, width)
		e.bounds = text.Bounds{Origin: origin, Size: size}
		return size
	}

	style := e.Style
	boxOrigin := origin.Add(text.Pt(style.Margin.Left, style.Margin.Top))
	boxWidth := max(width-style.Margin.Horizontal(), 0)
	contentOrigin := boxOrigin.Add(text.Pt(style.Padding.Left+style.BorderLeft, style.Padding.Top))
	contentWidth := max(boxWidth-style.Padding.Horizontal()-style.BorderLeft, 0)

	var contentHeight float64
	if style.Direction == Row {
		contentHeight = e.arrangeRow(contentOrigin, contentWidth)
	} else {
		contentHeight = e.arrangeColumn(contentOrigin, contentWidth)
	}

	boxHeight := style.Padding.Vertical() + contentHeight + style.BorderBottom
	e.bounds = text.Bounds{Origin: boxOrigin, Size: text.Size{Width: boxWidth, Height: boxHeight}}

	return text.Size{Width: width, Height: boxHeight + style.Margin.Vertical()}
}

func (e *Element) arrangeColumn(origin text.Point, width float64) float64 {
	y := origin.Y
	for child := e.FirstChild; child != nil; child = child.Next {
		if child != e.FirstChild {
			y += e.Style.Gap
		}
		size := child.arrange(text.Pt(origin.X, y), width)
		y += size.Height
	}
	return y - origin.Y
}

// arrangeRow gives fixed children their intrinsic width and shares what is
// left between flexible children in proportion to their FlexGrow.
func (e *Element) arrangeRow(origin text.Point, width float64) float64 {
	children := e.Children()
	if len(children) == 0 {
		return 0
	}

	widths := make([]float64, len(children))
	free := width - e.Style.Gap*float64(len(children)-1)
	totalGrow := 0.0
	for idx, child := range children {
		if child.Style.FlexGrow > 0 {
			totalGrow += child.Style.FlexGrow
			continue
		}
		widths[idx] = child.measure(width).Width
		free -= widths[idx]
	}
	free = max(free, 0)
	if totalGrow > 0 {
		for idx, child := range children {
			if child.Style.FlexGrow > 0 {
				widths[idx] = free * child.Style.FlexGrow / totalGrow
			}
		}
	}

	x := origin.X
	height := 0.0
	for idx, child := range children {
		size := child.arrange(text.Pt(x, origin.Y), widths[idx])
		height = max(height, size.Height)
		x += widths[idx] + e.Style.Gap
	}
	return height
}

// measure returns the intrinsic margin box size of e when given at most maxWidth.
func (e *Element) measure(maxWidth float64) text.Size {
	if e.Kind == KindText {
		if e.Layout == nil {
			return text.Size{}
		}
		return e.Layout.Measure(maxWidth)
	}

	style := e.Style
	chrome := style.Margin.Horizontal() + style.Padding.Horizontal() + style.BorderLeft
	inner := math.Max(maxWidth-chrome, 0)

	var content text.Size
	first := true
	for child := e.FirstChild; child != nil; child = child.Next {
		size := child.measure(inner)
		gap := e.Style.Gap
		if first {
			gap = 0
			first = false
		}
		if style.Direction == Row {
			content.Width += gap + size.Width
			content.Height = max(content.Height, size.Height)
		} else {
			content.Width = max(content.Width, size.Width)
			content.Height += gap + size.Height
		}
	}

	return text.Size{
		Width:  content.Width + chrome,
		Height: content.Height + style.Padding.Vertical() + style.BorderBottom + style.Margin.Vertical(),
	}
}
