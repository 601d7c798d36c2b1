// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the share of reference characters reproduced in place.
func Accuracy(summary textcmp.Summary) float64 {
	return summary.Accuracy()
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	var totalAcc float64
	bestAcc := 0.0
	perfect := 0
	for _, a := range attempts {
		acc := Accuracy(a.Summary)
		totalAcc += acc
		bestAcc = math.Max(bestAcc, acc)
		if a.Perfect {
			perfect++
		}
	}
	count := float64(len(attempts))
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", len(attempts)),
		fmt.Sprintf("Perfect: %d", perfect),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Best Accuracy: %.2f%%", bestAcc*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints the moving-average accuracy as a sparkline.
func RenderCurve(w io.Writer, attempts []model.AttemptAggregate, window int) error {
	if len(attempts) == 0 {
		return nil
	}
	accs := make([]float64, len(attempts))
	for i, a := range attempts {
		accs[i] = Accuracy(a.Summary) * 100
	}
	accs = MovingAverage(accs, window)
	if _, err := fmt.Fprintf(w, "Accuracy curve (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s] %.1f%%\n\n", Sparkline(accs), accs[len(accs)-1]); err != nil {
		return err
	}
	return nil
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := Weakest(aggs)

	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Matches", "Mismatches", "Missing"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			textcmp.FormatForDisplay(r.Char),
			fmt.Sprintf("%.2f%%", CharAccuracy(r)*100),
			fmt.Sprintf("%d", r.Matches),
			fmt.Sprintf("%d", r.Mismatches),
			fmt.Sprintf("%d", r.Missing),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func sortWeakest(aggs []model.CharAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		ai := CharAccuracy(aggs[i])
		aj := CharAccuracy(aggs[j])
		if ai == aj {
			return aggs[i].Char < aggs[j].Char
		}
		return ai < aj
	})
}

// Weakest returns a copy of aggs ordered by ascending accuracy.
func Weakest(aggs []model.CharAggregate) []model.CharAggregate {
	out := make([]model.CharAggregate, len(aggs))
	copy(out, aggs)
	sortWeakest(out)
	return out
}

// CharAccuracy returns the share of occurrences reproduced correctly.
// Characters with no occurrences count as fully accurate.
func CharAccuracy(agg model.CharAggregate) float64 {
	total := agg.Matches + agg.Errors()
	if total == 0 {
		return 1.0
	}
	return float64(agg.Matches) / float64(total)
}
