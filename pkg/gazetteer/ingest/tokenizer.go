package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Token is a word-like unit of text with its byte span in the source string.
type Token struct {
	Value string // normalized form, used for symbol lookups
	Start int    // inclusive byte offset
	End   int    // exclusive byte offset
}

// Tokenizer splits text into normalized tokens.
// Gazetteer raw values and queries must go through the same Tokenizer so
// that their normalized forms agree. A Tokenizer is immutable and safe for
// concurrent use.
type Tokenizer struct {
	foldDiacritics bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithDiacriticFolding strips combining marks after decomposition,
// so that "café" and "cafe" normalize to the same token.
func WithDiacriticFolding(enabled bool) Option {
	return func(t *Tokenizer) {
		t.foldDiacritics = enabled
	}
}

// NewTokenizer creates a tokenizer.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FoldsDiacritics reports whether diacritic folding is enabled.
func (t *Tokenizer) FoldsDiacritics() bool {
	return t.foldDiacritics
}

// Tokenize splits text into tokens. A token is a maximal run of letters,
// digits and combining marks; everything else separates tokens.
// Offsets always refer to the original text.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	start := -1

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = t.appendToken(tokens, text, start, i)
			start = -1
		}
	}

	// Don't forget the last token
	if start >= 0 {
		tokens = t.appendToken(tokens, text, start, len(text))
	}

	return tokens
}

// Words returns only the normalized values of the tokens in text.
func (t *Tokenizer) Words(text string) []string {
	tokens := t.Tokenize(text)
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Value
	}
	return words
}

// Normalize folds a single word: compatibility composition, lowercase and,
// when enabled, diacritic removal.
func (t *Tokenizer) Normalize(word string) string {
	word = strings.ToLower(norm.NFKC.String(word))
	if t.foldDiacritics {
		word = removeDiacritics(word)
	}
	return word
}

func (t *Tokenizer) appendToken(tokens []Token, text string, start, end int) []Token {
	value := t.Normalize(text[start:end])
	if value == "" {
		return tokens
	}
	return append(tokens, Token{Value: value, Start: start, End: end})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// removeDiacritics decomposes and strips nonspacing marks.
func removeDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	stripped := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, decomposed)
	return norm.NFC.String(stripped)
}
