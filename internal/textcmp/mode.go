package textcmp

import (
	"fmt"
	"strings"
)

// Mode selects the comparison performed by Compare.
type Mode int

// Comparison modes.
const (
	ModeChar Mode = iota
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeChar:
		return "char"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "char" or "full".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "char":
		return ModeChar, nil
	case "full":
		return ModeFull, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (expected char or full)", s)
	}
}

// Result holds the outcome of Compare. Exactly one of Char and Full is set,
// matching Mode.
type Result struct {
	Mode Mode
	Char *CharResult
	Full *FullResult
}

// Perfect reports whether the attempt reproduces the reference.
func (r Result) Perfect() bool {
	switch {
	case r.Char != nil:
		s := r.Char.Summary
		return s.Matches == s.Total
	case r.Full != nil:
		return r.Full.IsPerfect
	default:
		return false
	}
}

// Compare runs the comparison selected by mode.
func Compare(reference, attempt string, mode Mode, opts Options) Result {
	if mode == ModeFull {
		full := CompareFull(reference, attempt, opts)
		return Result{Mode: ModeFull, Full: &full}
	}
	chars := CompareChars(reference, attempt, opts)
	return Result{Mode: ModeChar, Char: &chars}
}
