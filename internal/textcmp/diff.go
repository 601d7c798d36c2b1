package textcmp

// FirstDifference returns the first rune index at which a and b differ.
// It returns -1 when the strings are identical and min(len(a), len(b)) when
// one is a strict prefix of the other.
func FirstDifference(a, b string) int {
	return firstDifferenceRunes([]rune(a), []rune(b))
}

func firstDifferenceRunes(a, b []rune) int {
	shared := min(len(a), len(b))
	for i := 0; i < shared; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) == len(b) {
		return -1
	}
	return shared
}
