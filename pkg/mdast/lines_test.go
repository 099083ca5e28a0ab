package mdast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdview/pkg/mdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []mdast.LineInfo
	}{
		{name: "empty", source: "", want: []mdast.LineInfo{}},
		{
			name:   "no trailing newline",
			source: "# Title",
			want:   []mdast.LineInfo{{StartOffset: 0, NewlineStart: 7, EndOffset: 7}},
		},
		{
			name:   "heading and paragraph",
			source: "# Title\n\nBody",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 7, EndOffset: 8},
				{StartOffset: 8, NewlineStart: 8, EndOffset: 9},
				{StartOffset: 9, NewlineStart: 13, EndOffset: 13},
			},
		},
		{
			name:   "CRLF endings",
			source: "a\r\nb\r\n",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 6, EndOffset: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, mdast.BuildLines(tt.source)); diff != "" {
				t.Errorf("BuildLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineIndex_LineAt(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex("# Title\n\nBody *em*.")

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 2, wantLine: 1, wantCol: 3},
		{offset: 7, wantLine: 1, wantCol: 8},
		{offset: 8, wantLine: 2, wantCol: 1},
		{offset: 9, wantLine: 3, wantCol: 1},
		{offset: 15, wantLine: 3, wantCol: 7},
		{offset: 19, wantLine: 3, wantCol: 11},
		{offset: -1, wantLine: 0, wantCol: 0},
	}

	for _, tt := range tests {
		line, col := index.LineAt(tt.offset)
		assert.Equal(t, tt.wantLine, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "column of offset %d", tt.offset)
	}
}

func TestLineIndex_Offset(t *testing.T) {
	t.Parallel()

	index := mdast.NewLineIndex("one\ntwo\n")

	tests := []struct {
		name   string
		line   int
		col    int
		want   int
		wantOK bool
	}{
		{name: "first byte", line: 1, col: 1, want: 0, wantOK: true},
		{name: "second line", line: 2, col: 2, want: 5, wantOK: true},
		{name: "after the newline", line: 1, col: 5, want: 4, wantOK: true},
		{name: "past the line", line: 1, col: 6, wantOK: false},
		{name: "line zero", line: 0, col: 1, wantOK: false},
		{name: "past the last line", line: 4, col: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := index.Offset(tt.line, tt.col)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLineIndex_RoundTrip(t *testing.T) {
	t.Parallel()

	source := "# Title\r\n\n- item\n  continued"
	index := mdast.NewLineIndex(source)
	assert.Equal(t, 4, index.LineCount())

	for offset := range len(source) {
		line, col := index.LineAt(offset)
		got, ok := index.Offset(line, col)
		assert.True(t, ok, "offset %d", offset)
		assert.Equal(t, offset, got, "offset %d", offset)
	}
}

func TestParsedDocument_LineAt(t *testing.T) {
	t.Parallel()

	var nilDoc *mdast.ParsedDocument
	line, col := nilDoc.LineAt(3)
	assert.Zero(t, line)
	assert.Zero(t, col)

	doc := mdast.NewParsedDocument("a\nb", nil)
	line, col = doc.LineAt(2)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}
