package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
)

// Helpers that recover source offsets goldmark does not record on its nodes,
// such as block markers and closing fences.

// lineEnd returns the offset just after the newline ending the line that
// contains pos, or len(src) on the last line. A pos that already follows a
// newline is returned unchanged.
func lineEnd(src []byte, pos int) int {
	pos = clampOffset(src, pos)
	if pos > 0 && src[pos-1] == '\n' {
		return pos
	}
	if idx := bytes.IndexByte(src[pos:], '\n'); idx >= 0 {
		return pos + idx + 1
	}
	return len(src)
}

// lineEndAt returns the end of the line holding the byte at pos, including
// its newline.
func lineEndAt(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	return lineEnd(src, pos+1)
}

// lineContentEnd returns the end of the line holding the byte at pos,
// without the line terminator.
func lineContentEnd(src []byte, pos int) int {
	pos = clampOffset(src, pos)
	end := lineEndAt(src, pos)
	if end > 0 && src[end-1] == '\n' {
		end--
		if end > pos && src[end-1] == '\r' {
			end--
		}
	}
	return max(end, pos)
}

func clampOffset(src []byte, pos int) int {
	return min(max(pos, 0), len(src))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// skipPrefix skips whitespace, newlines and block quote markers.
func skipPrefix(src []byte, pos int) int {
	for pos < len(src) {
		switch src[pos] {
		case ' ', '\t', '\r', '\n', '>':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// linePrefixEnd skips indentation and block quote markers within one line.
func linePrefixEnd(src []byte, pos int) int {
	for pos < len(src) && (isSpace(src[pos]) || src[pos] == '>') {
		pos++
	}
	return pos
}

// forEachLine calls fn with the offset after each line's container prefix,
// starting with the line containing from, until fn returns true.
func forEachLine(src []byte, from int, fn func(lineStart, contentStart int) bool) {
	for start := clampOffset(src, from); start < len(src); {
		if fn(start, linePrefixEnd(src, start)) {
			return
		}
		next := lineEndAt(src, start)
		if next <= start {
			return
		}
		start = next
	}
}

// fenceAt returns the fence character and length at pos, or 0 if there is no
// fence of at least three backticks or tildes there.
func fenceAt(src []byte, pos int) (byte, int) {
	if pos >= len(src) || (src[pos] != '`' && src[pos] != '~') {
		return 0, 0
	}
	char := src[pos]
	n := 0
	for pos+n < len(src) && src[pos+n] == char {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	return char, n
}

// scanOpeningFence finds the opening fence of a code block at or after from.
func scanOpeningFence(src []byte, from int) (int, byte, int) {
	pos := skipPrefix(src, from)
	if char, n := fenceAt(src, pos); n > 0 {
		return pos, char, n
	}

	found, foundChar, foundLen := -1, byte(0), 0
	forEachLine(src, from, func(_, contentStart int) bool {
		if char, n := fenceAt(src, contentStart); n > 0 {
			found, foundChar, foundLen = contentStart, char, n
			return true
		}
		return false
	})
	return found, foundChar, foundLen
}

// closingFenceEnd returns the end of the closing fence line that follows
// pos, or -1 when the block is unterminated.
func closingFenceEnd(src []byte, pos int, char byte, minLen int) int {
	start := linePrefixEnd(src, lineEnd(src, pos))
	c, n := fenceAt(src, start)
	if c != char || n < minLen {
		return -1
	}
	rest := bytes.TrimSpace(src[start+n : lineContentEnd(src, start)])
	if len(rest) > 0 {
		return -1
	}
	return lineEndAt(src, start)
}

// isRuleLine reports whether the bytes form a thematic break.
func isRuleLine(line []byte) bool {
	var char byte
	count := 0
	for _, c := range line {
		switch {
		case isSpace(c):
			continue
		case c != '-' && c != '*' && c != '_':
			return false
		case char == 0:
			char = c
		case c != char:
			return false
		}
		count++
	}
	return count >= 3
}

// scanRule returns the range of the first thematic break line at or after from.
func scanRule(src []byte, from int) (int, int) {
	start, end := -1, -1
	forEachLine(src, from, func(_, contentStart int) bool {
		contentEnd := lineContentEnd(src, contentStart)
		if isRuleLine(src[contentStart:contentEnd]) {
			start, end = contentStart, lineEndAt(src, contentStart)
			return true
		}
		return false
	})
	return start, end
}

// listMarkerLen returns the length of a list item marker at pos, or 0.
func listMarkerLen(src []byte, pos int) int {
	if pos >= len(src) {
		return 0
	}
	switch src[pos] {
	case '-', '+', '*':
		if pos+1 == len(src) || isSpace(src[pos+1]) || src[pos+1] == '\n' || src[pos+1] == '\r' {
			return 1
		}
		return 0
	}

	n := 0
	for pos+n < len(src) && n < 10 && src[pos+n] >= '0' && src[pos+n] <= '9' {
		n++
	}
	if n == 0 || pos+n >= len(src) || (src[pos+n] != '.' && src[pos+n] != ')') {
		return 0
	}
	return n + 1
}

// scanListMarker finds the next list item marker at or after from.
func scanListMarker(src []byte, from int) (int, int) {
	pos := skipPrefix(src, from)
	if n := listMarkerLen(src, pos); n > 0 {
		return pos, n
	}

	found, foundLen := -1, 0
	forEachLine(src, from, func(_, contentStart int) bool {
		if n := listMarkerLen(src, contentStart); n > 0 {
			found, foundLen = contentStart, n
			return true
		}
		return false
	})
	return found, foundLen
}

// scanBlockQuote finds the next block quote marker at or after from.
func scanBlockQuote(src []byte, from int) int {
	from = clampOffset(src, from)
	pos := from
	for pos < len(src) && (isSpace(src[pos]) || src[pos] == '\r' || src[pos] == '\n') {
		pos++
	}
	if pos < len(src) && src[pos] == '>' {
		return pos
	}
	if idx := bytes.IndexByte(src[from:], '>'); idx >= 0 {
		return from + idx
	}
	return -1
}

// headingStart walks back from the heading text over an ATX marker on the
// same line.
func headingStart(src []byte, contentStart int) int {
	pos := clampOffset(src, contentStart)
	for pos > 0 && (src[pos-1] == '#' || isSpace(src[pos-1])) {
		pos--
	}
	for pos < contentStart && isSpace(src[pos]) {
		pos++
	}
	return pos
}

// setextUnderlineEnd returns the end of a setext underline on the line after
// pos, or -1 if that line is not an underline.
func setextUnderlineEnd(src []byte, pos int) int {
	next := lineEnd(src, pos)
	if next >= len(src) {
		return -1
	}
	start := linePrefixEnd(src, next)
	line := bytes.TrimSpace(src[start:lineContentEnd(src, start)])
	if len(line) == 0 {
		return -1
	}
	if bytes.Count(line, line[:1]) != len(line) || (line[0] != '=' && line[0] != '-') {
		return -1
	}
	return lineEndAt(src, start)
}

// runBefore counts consecutive occurrences of char ending just before pos,
// up to limit.
func runBefore(src []byte, pos int, char byte, limit int) int {
	n := 0
	for pos-n-1 >= 0 && n < limit && src[pos-n-1] == char {
		n++
	}
	return n
}

// runAt counts consecutive occurrences of char starting at pos, up to limit.
func runAt(src []byte, pos int, char byte, limit int) int {
	n := 0
	for pos+n < len(src) && n < limit && src[pos+n] == char {
		n++
	}
	return n
}

// linkTail returns the end of a link's closing bracket and destination or
// reference label, given an offset at or before the closing ']'.
func linkTail(src []byte, pos int) int {
	pos = clampOffset(src, pos)
	idx := bytes.IndexByte(src[pos:], ']')
	if idx < 0 {
		return pos
	}
	pos += idx + 1
	if pos >= len(src) {
		return pos
	}

	switch src[pos] {
	case '(':
		depth := 0
		var quote byte
		for i := pos; i < len(src); i++ {
			c := src[i]
			switch {
			case c == '\\':
				i++
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '(':
				depth++
			case c == ')':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	case '[':
		if end := bytes.IndexByte(src[pos:], ']'); end >= 0 {
			return pos + end + 1
		}
	}
	return pos
}

// blockLines returns the outer bounds of a block node's lines, or ok=false
// when it has none. It must not be called on inline nodes.
func blockLines(n ast.Node) (int, int, bool) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
}
