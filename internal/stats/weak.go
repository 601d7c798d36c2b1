package stats

import (
	"github.com/verte-zerg/recite/internal/model"
)

// WeakChars returns up to top characters that were most often not
// reproduced, weakest first. Characters never missed are excluded.
func WeakChars(aggs []model.CharAggregate, top int) []string {
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Errors() > 0 {
			candidates = append(candidates, agg)
		}
	}
	sortWeakest(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Char)
	}
	return out
}
