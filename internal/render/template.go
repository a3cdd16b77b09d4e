package render

import (
	"regexp"
	"strings"
)

// Template is a parsed output template: literal segments interleaved with
// indexed placeholders ({0}, {1}, ...). Parsing happens once per
// definition; Expand is cheap after that.
type Template struct {
	tokens []token
}

type token struct {
	literal string
	index   int // -1 for literal tokens
}

var placeholderRegex = regexp.MustCompile(`\{(\d+)\}`)

// ParseTemplate splits s into its token sequence.
func ParseTemplate(s string) Template {
	var t Template
	last := 0
	for _, loc := range placeholderRegex.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > last {
			t.tokens = append(t.tokens, token{literal: s[last:loc[0]], index: -1})
		}
		idx := 0
		for _, c := range s[loc[2]:loc[3]] {
			idx = idx*10 + int(c-'0')
		}
		t.tokens = append(t.tokens, token{literal: s[loc[0]:loc[1]], index: idx})
		last = loc[1]
	}
	if last < len(s) {
		t.tokens = append(t.tokens, token{literal: s[last:], index: -1})
	}
	return t
}

// Expand substitutes captures positionally. A placeholder with no
// corresponding capture is emitted as its literal text, so a template
// asking for more fields than were captured degrades to the original
// placeholder instead of erroring.
func (t Template) Expand(captures []string) string {
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.index >= 0 && tok.index < len(captures) {
			b.WriteString(captures[tok.index])
			continue
		}
		b.WriteString(tok.literal)
	}
	return b.String()
}
