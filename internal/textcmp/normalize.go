// Package textcmp compares a typed attempt against a reference text.
package textcmp

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Options controls how texts are normalized before comparison.
type Options struct {
	IgnorePunctuation  bool
	CollapseWhitespace bool
	// Compose applies NFC so decomposed input matches precomposed text.
	Compose bool
}

// punctSet covers common ASCII and CJK punctuation, including U+3000 and U+2026.
const punctSet = ".,，。!?！？；;:：、·‧-—()[]{}\"'“”‘’《》〈〉「」『』【】～~﹏＿\u3000\u2026"

var punctRunes = buildPunctRunes(punctSet)

func buildPunctRunes(set string) map[rune]struct{} {
	out := make(map[rune]struct{}, len(set))
	for _, r := range set {
		out[r] = struct{}{}
	}
	return out
}

// IsPunct reports whether r is removed when punctuation is ignored.
func IsPunct(r rune) bool {
	_, ok := punctRunes[r]
	return ok
}

// Normalize unifies line endings, optionally strips punctuation and collapses
// whitespace, then trims the result.
func Normalize(text string, opts Options) string {
	if opts.Compose {
		text = norm.NFC.String(text)
	}
	text = unifyLineEndings(text)
	if opts.IgnorePunctuation {
		text = strings.Map(func(r rune) rune {
			if IsPunct(r) {
				return -1
			}
			return r
		}, text)
		if opts.Compose {
			// Stripping can bring a base rune next to its combining mark.
			text = norm.NFC.String(text)
		}
	}
	if opts.CollapseWhitespace {
		text = collapseSpace(text)
	}
	return strings.TrimFunc(text, unicode.IsSpace)
}

func unifyLineEndings(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func collapseSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
