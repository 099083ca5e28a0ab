package mdast

import "fmt"

// SourceRange represents a half-open byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// NewRange returns the range [start, end).
func NewRange(start, end int) SourceRange {
	return SourceRange{StartOffset: start, EndOffset: end}
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Text returns the slice of source covered by the range, clamped to the source bounds.
func (r SourceRange) Text(source string) string {
	start := min(max(r.StartOffset, 0), len(source))
	end := min(max(r.EndOffset, start), len(source))
	return source[start:end]
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%d..%d", r.StartOffset, r.EndOffset)
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
