package textcmp

// Status classifies a single compared position.
type Status int

// Position statuses.
const (
	StatusMatch Status = iota
	StatusMismatch
	StatusMissing
	StatusExtra
)

func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusMismatch:
		return "mismatch"
	case StatusMissing:
		return "missing"
	case StatusExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// Item describes one compared position. Index is 1-based; an empty
// Reference or Attempt means that side has no character there.
type Item struct {
	Index     int
	Reference string
	Attempt   string
	Status    Status
}

// Summary aggregates item statuses. The four counts always sum to Total.
type Summary struct {
	Total      int
	Matches    int
	Mismatches int
	Missing    int
	Extra      int
}

// Accuracy returns the share of matching positions.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matches) / float64(s.Total)
}

// CharResult is the outcome of a character-level comparison.
type CharResult struct {
	Items   []Item
	Summary Summary
}

// CompareChars compares reference and attempt position by position.
// Whitespace is never collapsed so line breaks stay meaningful positions.
func CompareChars(reference, attempt string, opts Options) CharResult {
	opts.CollapseWhitespace = false
	refRunes := []rune(Normalize(reference, opts))
	attRunes := []rune(Normalize(attempt, opts))

	total := max(len(refRunes), len(attRunes))
	items := make([]Item, 0, total)
	summary := Summary{Total: total}
	for i := 0; i < total; i++ {
		item := Item{Index: i + 1}
		hasRef := i < len(refRunes)
		hasAtt := i < len(attRunes)
		if hasRef {
			item.Reference = string(refRunes[i])
		}
		if hasAtt {
			item.Attempt = string(attRunes[i])
		}
		switch {
		case !hasRef:
			item.Status = StatusExtra
			summary.Extra++
		case !hasAtt:
			item.Status = StatusMissing
			summary.Missing++
		case refRunes[i] != attRunes[i]:
			item.Status = StatusMismatch
			summary.Mismatches++
		default:
			item.Status = StatusMatch
			summary.Matches++
		}
		items = append(items, item)
	}
	return CharResult{Items: items, Summary: summary}
}
