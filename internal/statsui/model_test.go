package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

type fakeSource struct {
	attempts []model.AttemptAggregate
	aggs     []model.CharAggregate
}

func (f *fakeSource) ListAttempts(_ context.Context, _ model.StatsConfig) ([]model.AttemptAggregate, error) {
	return f.attempts, nil
}

func (f *fakeSource) ListCharAggregates(_ context.Context, _ []int64) ([]model.CharAggregate, error) {
	return f.aggs, nil
}

func newTestModel() *Model {
	at := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		attempts: []model.AttemptAggregate{
			{AttemptID: 1, Mode: textcmp.ModeChar, EndedAt: at, Summary: textcmp.Summary{Total: 4, Matches: 2, Mismatches: 2}},
			{AttemptID: 2, Mode: textcmp.ModeFull, EndedAt: at.Add(time.Hour), Summary: textcmp.Summary{Total: 4, Matches: 4}, Perfect: true, DurationMs: 1500},
		},
		aggs: []model.CharAggregate{
			{Char: "a", Matches: 2},
			{Char: "b", Matches: 1, Mismatches: 1},
		},
	}
	m := NewModel(src, model.StatsConfig{CurveWindow: 5, WeakTop: 3}, "Poem")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestOverviewView(t *testing.T) {
	m := newTestModel()
	view := m.View()
	for _, want := range []string{"Overview", "Characters", "Filter: Poem", "Attempts", "Weak characters: b", "perfect"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestCharTableTab(t *testing.T) {
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCharTable {
		t.Fatalf("expected char table tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "Mismatches") || !strings.Contains(view, "50.00%") {
		t.Fatalf("expected char table in view:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap, got %d", m.activeTab)
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}})
	if m.cfg.CurveWindow != 10 {
		t.Fatalf("expected window 10, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
