package textcmp

import "fmt"

// PrefixResult reports how an in-progress attempt relates to the reference.
type PrefixResult struct {
	// Correct is true when the attempt equals the reference prefix of the
	// same length.
	Correct bool
	Typed   int
	Total   int
	// DiffPosition is the 1-based position of the first wrong character,
	// 0 when Correct.
	DiffPosition int
	// Exceeded counts characters typed past a fully matched reference.
	Exceeded int
}

// Empty reports whether nothing has been typed yet.
func (p PrefixResult) Empty() bool {
	return p.Typed == 0
}

// Messages renders the result as short status lines.
func (p PrefixResult) Messages() []string {
	var out []string
	if p.Correct {
		out = append(out, fmt.Sprintf("correct so far (%d/%d)", p.Typed, p.Total))
	} else {
		out = append(out, fmt.Sprintf("char %d differs", p.DiffPosition))
	}
	if p.Exceeded > 0 {
		out = append(out, fmt.Sprintf("exceeded full text by %d chars", p.Exceeded))
	}
	return out
}

// CheckPrefix compares attempt with the reference prefix of the same length.
// Unlike CompareChars it never reports characters the attempt has not reached.
func CheckPrefix(reference, attempt string, opts Options) PrefixResult {
	opts.CollapseWhitespace = false
	refRunes := []rune(Normalize(reference, opts))
	attRunes := []rune(Normalize(attempt, opts))

	result := PrefixResult{Typed: len(attRunes), Total: len(refRunes)}
	prefix := refRunes[:min(len(refRunes), len(attRunes))]
	idx := firstDifferenceRunes(prefix, attRunes)
	if idx == -1 {
		result.Correct = true
	} else {
		result.DiffPosition = idx + 1
	}
	// A reference exhausted with every shared rune matching yields idx == len(refRunes).
	if len(attRunes) > len(refRunes) && idx == len(refRunes) {
		result.Exceeded = len(attRunes) - len(refRunes)
	}
	return result
}
