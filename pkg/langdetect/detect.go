// Package langdetect guesses the language of code block content and
// normalizes fence info strings. It is used when a code block has no
// language and the fallback language is "auto".
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect. They match chroma lexer names.
const (
	LangGo         = "go"
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangJSON       = "json"
	LangYAML       = "yaml"
	LangHTML       = "html"
	LangSQL        = "sql"
	LangRust       = "rust"
	LangDockerfile = "docker"
	LangBash       = "bash"
)

// classifierCandidates limits the enry classifier to languages that show up
// in documentation.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// sample holds the views of the content that the heuristics look at.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
	upper   string
}

func newSample(content []byte) sample {
	text := string(content)
	return sample{
		raw:     content,
		trimmed: bytes.TrimSpace(content),
		text:    text,
		upper:   strings.ToUpper(strings.TrimSpace(text)),
	}
}

// heuristic recognizes one language from strongly indicative patterns.
type heuristic struct {
	lang  string
	match func(s sample) bool
}

// heuristics are tried in order of specificity.
var heuristics = []heuristic{
	{LangGo, func(s sample) bool { return bytes.HasPrefix(s.trimmed, []byte("package ")) }},
	{LangPython, isPython},
	{LangHTML, func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{LangJSON, func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{LangDockerfile, func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
			(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
	}},
	{LangSQL, func(s sample) bool {
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(s.upper, kw) {
				return true
			}
		}
		return false
	}},
	{LangRust, func(s sample) bool {
		return containsAny(s.text, "fn main()", "println!", "let mut ")
	}},
	{LangJavaScript, func(s sample) bool {
		return containsAny(s.text, "=>", "const ", "let ", "console.log")
	}},
	{LangYAML, isYAML},
}

// Detect returns the language of code content, or ok=false when no
// language can be determined with confidence.
func Detect(content []byte) (string, bool) {
	if len(bytes.TrimSpace(content)) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Normalize(lang), true
	}

	s := newSample(content)
	for _, h := range heuristics {
		if h.match(s) {
			return h.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return Normalize(lang), true
	}

	return "", false
}

// Normalize maps a fence info string or a linguist language name to the
// lower-case name used for highlighting. Aliases known to linguist, such as
// "golang" or "sh", resolve to their language.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(name); ok {
		name = lang
	}
	switch name {
	case "Shell":
		return LangBash
	case "Dockerfile":
		return LangDockerfile
	}
	return strings.ToLower(name)
}

func isPython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go uses "import (", Python does not.
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))) {
		return true
	}
	return containsAny(s.text, "__name__", "__main__")
}

// isYAML counts key: value pairs and root list items.
func isYAML(s sample) bool {
	keys := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !bytes.ContainsAny(line, "({") && line[0] != '"' {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
