package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

type fakeRecorder struct {
	attempts []model.Attempt
	chars    [][]model.CharStats
}

func (f *fakeRecorder) InsertAttempt(_ context.Context, attempt model.Attempt, chars []model.CharStats) (int64, error) {
	f.attempts = append(f.attempts, attempt)
	f.chars = append(f.chars, chars)
	return int64(len(f.attempts)), nil
}

func newTestModel(cfg model.Config, content string) (*Model, *fakeRecorder) {
	rec := &fakeRecorder{}
	m := NewModel(cfg, rec, model.Text{ID: "t1", Title: "靜夜思", Content: content})
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		start = start.Add(time.Second)
		return start
	}
	return m, rec
}

func typeText(m *Model, text string) {
	m.input.SetValue(text)
	m.onInputChanged()
}

func TestCharModeLiveCheck(t *testing.T) {
	m, rec := newTestModel(model.Config{Mode: textcmp.ModeChar}, "床前明月光")
	if out := m.renderResult(40); !strings.Contains(out, "Start typing") {
		t.Fatalf("expected hint before typing: %q", out)
	}

	typeText(m, "床前")
	if out := m.renderResult(40); !strings.Contains(out, "correct so far (2/5)") {
		t.Fatalf("expected prefix status: %q", out)
	}

	typeText(m, "床後")
	if out := m.renderResult(40); !strings.Contains(out, "char 2 differs") {
		t.Fatalf("expected differing position: %q", out)
	}
	if len(rec.attempts) != 0 {
		t.Fatalf("expected no attempt recorded yet")
	}

	typeText(m, "床前明月光")
	if len(rec.attempts) != 1 {
		t.Fatalf("expected completed attempt to be recorded, got %d", len(rec.attempts))
	}
	got := rec.attempts[0]
	if !got.Perfect || got.TextID != "t1" || got.Summary.Matches != 5 || !got.EndedAt.After(got.StartedAt) {
		t.Fatalf("unexpected attempt: %+v", got)
	}
	if len(rec.chars[0]) != 5 {
		t.Fatalf("expected char stats for each reference char, got %+v", rec.chars[0])
	}
}

func TestFullModeSubmit(t *testing.T) {
	m, rec := newTestModel(model.Config{Mode: textcmp.ModeFull}, "海日生殘夜")
	if out := m.renderResult(40); !strings.Contains(out, "ctrl+s") {
		t.Fatalf("expected submit hint: %q", out)
	}
	typeText(m, "海日昇殘夜")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.full == nil || m.full.IsPerfect {
		t.Fatalf("expected imperfect full result: %+v", m.full)
	}
	out := m.renderResult(80)
	if !strings.Contains(out, "Still differs") || !strings.Contains(out, "differs from char 3") {
		t.Fatalf("unexpected full result output: %q", out)
	}
	if len(rec.attempts) != 1 || rec.attempts[0].Perfect || rec.attempts[0].Mode != textcmp.ModeFull {
		t.Fatalf("unexpected recorded attempts: %+v", rec.attempts)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if len(rec.attempts) != 1 {
		t.Fatalf("expected unchanged attempt not to be recorded twice")
	}
}

func TestTogglesAndReset(t *testing.T) {
	m, _ := newTestModel(model.Config{Mode: textcmp.ModeChar}, "山川，含秀氣")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.config.Mode != textcmp.ModeFull {
		t.Fatalf("expected tab to switch to full mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if !m.config.IgnorePunctuation {
		t.Fatalf("expected ctrl+p to enable ignore punctuation")
	}
	typeText(m, "山川含秀氣")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.full == nil || !m.full.IsPerfect {
		t.Fatalf("expected perfect result ignoring punctuation: %+v", m.full)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.input.Value() != "" || m.full != nil || m.started {
		t.Fatalf("expected reset state")
	}
}

func TestCompletedAttemptRecordedOnce(t *testing.T) {
	m, rec := newTestModel(model.Config{Mode: textcmp.ModeChar}, "天地")
	for _, typed := range []string{"天地", "天地 ", "天地", "天地\n", "天地"} {
		typeText(m, typed)
	}
	if len(rec.attempts) != 1 {
		t.Fatalf("expected one recorded attempt, got %d", len(rec.attempts))
	}

	typeText(m, "天")
	typeText(m, "天地")
	if len(rec.attempts) != 2 {
		t.Fatalf("expected retyped completion to be recorded, got %d", len(rec.attempts))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	typeText(m, "天地")
	if len(rec.attempts) != 3 {
		t.Fatalf("expected attempt after reset to be recorded, got %d", len(rec.attempts))
	}
}
