package mdast

import "sort"

// LineInfo holds metadata for a single line of source.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of source).
	EndOffset int
}

// LineIndex maps byte offsets of a source string to line/column positions.
type LineIndex struct {
	size  int
	lines []LineInfo
}

// NewLineIndex builds the line index for source.
func NewLineIndex(source string) LineIndex {
	return LineIndex{size: len(source), lines: BuildLines(source)}
}

// BuildLines constructs line metadata from source.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(source string) []LineInfo {
	if len(source) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := range len(source) {
		if source[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > 0 && source[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line, which may not have a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(source),
		EndOffset:    len(source),
	})

	return lines
}

// LineCount returns the number of lines.
func (li LineIndex) LineCount() int {
	return len(li.lines)
}

// Lines returns the line table.
func (li LineIndex) Lines() []LineInfo {
	return li.lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (li LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 || len(li.lines) == 0 {
		return 0, 0
	}

	if offset >= li.size {
		lastLine := li.lines[len(li.lines)-1]
		return len(li.lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(li.lines), func(i int) bool {
		return li.lines[i].EndOffset > offset
	})
	if lineIdx >= len(li.lines) {
		lineIdx = len(li.lines) - 1
	}

	lineInfo := li.lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - lineInfo.StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (li LineIndex) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(li.lines) || col < 1 {
		return 0, false
	}

	lineInfo := li.lines[line-1]
	offset := lineInfo.StartOffset + col - 1

	// Column may point one past the last byte (cursor positioning).
	if offset > lineInfo.EndOffset {
		return 0, false
	}

	return offset, true
}
