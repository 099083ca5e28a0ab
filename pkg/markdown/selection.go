package markdown

import "github.com/yaklabco/mdview/pkg/mdast"

// Selection is a range of source offsets with Start <= End. Reversed records
// that the moving edge (head) is Start rather than End. Pending is set while
// a drag is in progress.
type Selection struct {
	Start    int
	End      int
	Reversed bool
	Pending  bool
}

// SelectRange returns a pending selection covering r.
func SelectRange(r mdast.SourceRange) Selection {
	return Selection{Start: r.StartOffset, End: r.EndOffset, Pending: true}
}

// Tail returns the anchored edge.
func (s Selection) Tail() int {
	if s.Reversed {
		return s.End
	}
	return s.Start
}

// Head returns the moving edge.
func (s Selection) Head() int {
	if s.Reversed {
		return s.Start
	}
	return s.End
}

// SetHead moves the head to offset, flipping direction when it crosses the
// tail.
func (s *Selection) SetHead(head int) {
	if head < s.Tail() {
		if !s.Reversed {
			s.End = s.Start
			s.Reversed = true
		}
		s.Start = head
		return
	}

	if s.Reversed {
		s.Start = s.End
		s.Reversed = false
	}
	s.End = head
}

// Range returns Start..End.
func (s Selection) Range() mdast.SourceRange {
	return mdast.NewRange(s.Start, s.End)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.End <= s.Start
}
