// Package highlight resolves code block languages to chroma lexers and
// reports the highlighted sub-ranges of code text.
package highlight

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdview/internal/logging"
	"github.com/yaklabco/mdview/pkg/langdetect"
)

// ErrUnknownLanguage is returned for names no lexer is registered for.
var ErrUnknownLanguage = errors.New("unknown language")

// HighlightID identifies a highlight class. It is the chroma token type of
// the highlighted token.
type HighlightID chroma.TokenType

// String returns the token type name, for example "KeywordDeclaration".
func (id HighlightID) String() string {
	return chroma.TokenType(id).String()
}

// Span is a highlighted sub-range of code text, in bytes.
type Span struct {
	Start int
	End   int
	ID    HighlightID
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Language highlights code of one language.
type Language struct {
	name  string
	lexer chroma.Lexer
}

// Name returns the lexer's name.
func (l *Language) Name() string {
	return l.name
}

// Highlight tokenises text[start:end] and returns the spans of non-plain
// tokens, in text offsets. Plain text and whitespace tokens are left out, so
// callers style the gaps with the ambient style.
func (l *Language) Highlight(text string, start, end int) []Span {
	start = min(max(start, 0), len(text))
	end = min(max(end, start), len(text))
	if start == end {
		return nil
	}

	// EnsureLF would rewrite CRLF and shift every later span by a byte.
	it, err := l.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text[start:end])
	if err != nil {
		return nil
	}

	var spans []Span
	offset := start
	// Lexers may append a newline the text does not have.
	for tok := it(); tok != chroma.EOF && offset < end; tok = it() {
		n := min(len(tok.Value), end-offset)
		if n == 0 {
			continue
		}
		if tok.Type.Category() != chroma.Text {
			id := HighlightID(tok.Type)
			if last := len(spans) - 1; last >= 0 && spans[last].End == offset && spans[last].ID == id {
				spans[last].End += n
			} else {
				spans = append(spans, Span{Start: offset, End: offset + n, ID: id})
			}
		}
		offset += n
	}
	return spans
}

// Registry resolves language names on background goroutines and memoizes
// the results.
type Registry struct {
	mu     sync.Mutex
	langs  map[string]*Pending[*Language]
	logger *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		langs:  make(map[string]*Pending[*Language]),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DetectLanguage guesses the language of code and resolves it. It returns
// nil when nothing can be detected.
func (r *Registry) DetectLanguage(code []byte) *Pending[*Language] {
	lang, ok := langdetect.Detect(code)
	if !ok {
		return nil
	}
	r.logger.Debug("detected code block language", logging.FieldLanguage, lang)
	return r.LanguageForName(lang)
}

// LanguageExists reports whether name, or an alias of it, has a lexer.
func LanguageExists(name string) bool {
	key := langdetect.Normalize(name)
	return key != "" && lexers.Get(key) != nil
}

// LanguageForName starts resolving name, or returns the lookup already
// started for it.
func (r *Registry) LanguageForName(name string) *Pending[*Language] {
	key := langdetect.Normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.langs[key]; ok {
		return p
	}

	p := newPending[*Language]()
	r.langs[key] = p
	go func() {
		p.resolve(r.resolve(key))
	}()
	return p
}

func (r *Registry) resolve(name string) (*Language, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownLanguage)
	}

	lexer := lexers.Get(name)
	if lexer == nil {
		r.logger.Debug("no lexer for language", logging.FieldLanguage, name)
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return newLanguage(lexer), nil
}

func newLanguage(lexer chroma.Lexer) *Language {
	return &Language{
		name:  lexer.Config().Name,
		lexer: chroma.Coalesce(lexer),
	}
}
