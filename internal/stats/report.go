// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

// AttemptSource lists recorded attempts and their character stats.
type AttemptSource interface {
	ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error)
	ListCharAggregates(ctx context.Context, attemptIDs []int64) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts         []model.AttemptAggregate
	WindowAttemptIDs []int64
	CharAggsWindow   []model.CharAggregate
	WeakChars        []string
	CurveWindow      int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src AttemptSource, cfg model.StatsConfig) (Report, error) {
	attempts, err := src.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}

	windowIDs := lastAttemptIDs(attempts, cfg.CurveWindow)
	charAggs, err := src.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:         attempts,
		WindowAttemptIDs: windowIDs,
		CharAggsWindow:   charAggs,
		WeakChars:        WeakChars(charAggs, cfg.WeakTop),
		CurveWindow:      cfg.CurveWindow,
	}, nil
}

// Render writes the full report.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.Attempts); err != nil {
		return err
	}
	if err := RenderCurve(w, r.Attempts, r.CurveWindow); err != nil {
		return err
	}
	if len(r.WeakChars) > 0 {
		if _, err := fmt.Fprintf(w, "Weak characters: %s\n\n", formatWeakChars(r.WeakChars)); err != nil {
			return err
		}
	}
	if len(r.Attempts) == 0 {
		return nil
	}
	return RenderCharTable(w, r.CharAggsWindow)
}

func formatWeakChars(chars []string) string {
	labels := make([]string, len(chars))
	for i, ch := range chars {
		labels[i] = textcmp.FormatForDisplay(ch)
	}
	return strings.Join(labels, " ")
}

func attemptIDs(attempts []model.AttemptAggregate) []int64 {
	ids := make([]int64, len(attempts))
	for i, a := range attempts {
		ids[i] = a.AttemptID
	}
	return ids
}

func lastAttemptIDs(attempts []model.AttemptAggregate, window int) []int64 {
	if window <= 0 || len(attempts) <= window {
		return attemptIDs(attempts)
	}
	return attemptIDs(attempts[len(attempts)-window:])
}
