package markdown_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/mdview/pkg/markdown"
	goldmarkparser "github.com/yaklabco/mdview/pkg/parser/goldmark"
	"github.com/yaklabco/mdview/pkg/text"
)

func BenchmarkBuild(b *testing.B) {
	source := strings.Repeat("## Section\n\nBody *em* with a [link](https://example.com) and `code`.\n\n"+
		"- one\n- two\n\n```\nplain code\n```\n\n", 50)

	events, err := goldmarkparser.New(goldmarkparser.FlavorGFM).Parse(context.Background(), source)
	if err != nil {
		b.Fatal(err)
	}
	builder := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper())

	b.ResetTimer()
	for range b.N {
		builder.Build(events, source)
	}
}

func BenchmarkTextForRange(b *testing.B) {
	source := strings.Repeat("Some words on a line.\n\n", 200)
	events, err := goldmarkparser.New(goldmarkparser.FlavorGFM).Parse(context.Background(), source)
	if err != nil {
		b.Fatal(err)
	}
	rendered := markdown.NewBuilder(markdown.DefaultStyle(), text.NewMonoShaper()).Build(events, source)

	b.ResetTimer()
	for range b.N {
		rendered.Text.TextForRange(rendered.Text.SurroundingLineRange(len(source) / 2))
	}
}
