package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/yaklabco/mdview/pkg/text"
)

// DefaultThemeName is the chroma style used when none is configured.
const DefaultThemeName = "monokai"

// SyntaxTheme maps highlight ids to text styles.
type SyntaxTheme struct {
	style *chroma.Style
}

// NewSyntaxTheme returns the named chroma style, or chroma's fallback style
// when the name is unknown.
func NewSyntaxTheme(name string) *SyntaxTheme {
	if name == "" {
		name = DefaultThemeName
	}
	return &SyntaxTheme{style: styles.Get(name)}
}

// ThemeExists reports whether a chroma style with this name is registered.
func ThemeExists(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Name returns the chroma style name.
func (t *SyntaxTheme) Name() string {
	return t.style.Name
}

// Style returns the refinement for id. ok is false when the theme gives the
// token no foreground or font attributes.
func (t *SyntaxTheme) Style(id HighlightID) (text.TextStyleRefinement, bool) {
	if t == nil {
		return text.TextStyleRefinement{}, false
	}

	entry := t.style.Get(chroma.TokenType(id))
	var r text.TextStyleRefinement
	if entry.Colour.IsSet() {
		r.Color = text.Ref(text.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		r.Bold = text.Ref(true)
	}
	if entry.Italic == chroma.Yes {
		r.Italic = text.Ref(true)
	}
	if entry.Underline == chroma.Yes {
		r.Underline = text.Ref(true)
	}
	return r, !r.IsEmpty()
}
