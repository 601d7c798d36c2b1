// Package stats contains statistics calculations and reporting.
package stats

import (
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

// CollectCharStats tallies per-reference-character outcomes of a
// character-level comparison. Extra attempt characters have no reference
// character and are not counted.
func CollectCharStats(items []textcmp.Item) []model.CharStats {
	index := map[string]int{}
	var out []model.CharStats
	for _, item := range items {
		if item.Status == textcmp.StatusExtra {
			continue
		}
		i, ok := index[item.Reference]
		if !ok {
			i = len(out)
			index[item.Reference] = i
			out = append(out, model.CharStats{Char: item.Reference})
		}
		switch item.Status {
		case textcmp.StatusMatch:
			out[i].Matches++
		case textcmp.StatusMismatch:
			out[i].Mismatches++
		case textcmp.StatusMissing:
			out[i].Missing++
		}
	}
	return out
}
