package textcmp

import "fmt"

const contextRadius = 10

// FullResult is the outcome of a whole-text comparison.
type FullResult struct {
	ReferenceNormalized string
	AttemptNormalized   string
	IsPerfect           bool
	Differences         []string
}

// CompareFull checks whether attempt reproduces reference exactly once
// whitespace runs are collapsed, and describes where they diverge.
func CompareFull(reference, attempt string, opts Options) FullResult {
	opts.CollapseWhitespace = true
	result := FullResult{
		ReferenceNormalized: Normalize(reference, opts),
		AttemptNormalized:   Normalize(attempt, opts),
	}
	result.IsPerfect = result.ReferenceNormalized == result.AttemptNormalized
	if result.IsPerfect {
		return result
	}

	refRunes := []rune(result.ReferenceNormalized)
	attRunes := []rune(result.AttemptNormalized)
	if len(refRunes) != len(attRunes) {
		result.Differences = append(result.Differences,
			fmt.Sprintf("length differs: reference %d chars, attempt %d chars", len(refRunes), len(attRunes)))
	}
	if idx := firstDifferenceRunes(refRunes, attRunes); idx != -1 {
		result.Differences = append(result.Differences,
			fmt.Sprintf("differs from char %d. reference: 「%s」, attempt: 「%s」",
				idx+1, snippet(refRunes, idx), snippet(attRunes, idx)))
	}
	return result
}

// snippet returns the runes in [idx-contextRadius, idx+contextRadius),
// clipped to the text, or the empty-set symbol when nothing remains.
func snippet(runes []rune, idx int) string {
	start := max(0, idx-contextRadius)
	end := min(len(runes), idx+contextRadius)
	if start >= end {
		return emptySymbol
	}
	return string(runes[start:end])
}
