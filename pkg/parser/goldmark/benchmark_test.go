package goldmark_test

import (
	"context"
	"strings"
	"testing"

	goldmarkparser "github.com/yaklabco/mdview/pkg/parser/goldmark"
)

const benchDocument = "# Title\n\nSome *emphasis*, **strong** text and a [link](https://example.com).\n\n" +
	"- one\n- two\n  continued\n\n1. first\n2. second\n\n> quoted\n\n```go\nfunc main() {}\n```\n\n---\n"

func BenchmarkParse(b *testing.B) {
	source := strings.Repeat(benchDocument, 50)
	ctx := context.Background()

	parsers := map[string]*goldmarkparser.Parser{
		"commonmark": goldmarkparser.New(goldmarkparser.FlavorCommonMark),
		"gfm":        goldmarkparser.New(goldmarkparser.FlavorGFM),
		"links-only": goldmarkparser.NewLinksOnly(),
	}

	for name, parser := range parsers {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(source)))
			for range b.N {
				if _, err := parser.Parse(ctx, source); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
