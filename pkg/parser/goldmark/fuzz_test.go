package goldmark_test

import (
	"context"
	"testing"

	"github.com/yaklabco/mdview/pkg/mdast"
	"github.com/yaklabco/mdview/pkg/parser/goldmark"
)

var fuzzSeeds = []string{
	"",
	"Hello, world!",
	"# Heading",
	"## Heading 2 ##",
	"- list item",
	"1. ordered item\n2. second",
	"> blockquote\n> - nested list",
	"```\ncode\n```",
	"```go\nfunc main() {}\n```",
	"~~~\nunterminated",
	"    indented code",
	"*emphasis*",
	"**strong**",
	"***both***",
	"`code`",
	"`` a ` b ``",
	"[link](url)",
	"[ref][x]\n\n[x]: /url",
	"![image](src)",
	"<https://example.com>",
	"---",
	"\\*escaped\\*",
	"<div>html</div>",
	"a <span>b</span> c",
	"Title\n=====",
	"line1\nline2",
	"line1  \nline2",
	"line1\r\nline2",
	"| a | b |\n|---|---|\n| 1 | 2 |",
	"- [ ] task",
	"visit www.example.com or me@example.com",
}

// FuzzParse checks that every input produces a well-nested stream.
func FuzzParse(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	commonmark := goldmark.New(goldmark.FlavorCommonMark)
	gfm := goldmark.New(goldmark.FlavorGFM)
	links := goldmark.NewLinksOnly()

	f.Fuzz(func(t *testing.T, source string) {
		for _, p := range []*goldmark.Parser{commonmark, gfm, links} {
			events, err := p.Parse(context.Background(), source)
			if err != nil {
				t.Fatalf("%s (links only %v): %v", p.Flavor(), p.LinksOnly(), err)
			}
			if err := mdast.ValidateEvents(events, len(source)); err != nil {
				t.Fatalf("invalid stream: %v", err)
			}
		}
	})
}
