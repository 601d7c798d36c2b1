package textcmp

const emptySymbol = "∅"

// FormatForDisplay maps a single character to a printable symbol so that
// absent characters and whitespace stay visible.
func FormatForDisplay(ch string) string {
	switch ch {
	case "":
		return emptySymbol
	case "\n":
		return "↵"
	case "\t":
		return "⇥"
	case " ":
		return "␠"
	default:
		return ch
	}
}
