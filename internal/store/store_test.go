package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/textcmp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "recite.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// fixedClock returns successive times one minute apart.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestTextCRUD(t *testing.T) {
	st := openTestStore(t)
	st.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := st.CreateText(ctx, "  靜夜思 ", "床前明月光，\n疑是地上霜。\n")
	if err != nil {
		t.Fatalf("create text: %v", err)
	}
	if created.ID == "" || created.Title != "靜夜思" || created.Content != "床前明月光，\n疑是地上霜。" {
		t.Fatalf("unexpected created text: %+v", created)
	}

	got, err := st.GetText(ctx, created.ID)
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if got.Title != created.Title || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected fetched text: %+v", got)
	}

	updated, err := st.UpdateText(ctx, created.ID, "靜夜思", "床前明月光")
	if err != nil {
		t.Fatalf("update text: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) || !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("unexpected timestamps after update: %+v", updated)
	}

	byTitle, err := st.FindText(ctx, "靜夜思")
	if err != nil || byTitle.ID != created.ID {
		t.Fatalf("find by title: %+v %v", byTitle, err)
	}

	if err := st.DeleteText(ctx, created.ID); err != nil {
		t.Fatalf("delete text: %v", err)
	}
	if _, err := st.GetText(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.DeleteText(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateTextValidation(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.CreateText(ctx, " ", "content"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := st.CreateText(ctx, "title", "\n\t"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := st.UpdateText(ctx, "missing", "title", "content"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTextsOrder(t *testing.T) {
	st := openTestStore(t)
	st.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	for _, title := range []string{"b", "a", "c"} {
		if _, err := st.CreateText(ctx, title, "x"); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	byUpdated, err := st.ListTexts(ctx, OrderUpdated)
	if err != nil {
		t.Fatalf("list texts: %v", err)
	}
	if titles(byUpdated) != "cab" {
		t.Fatalf("unexpected updated order: %s", titles(byUpdated))
	}
	byTitle, err := st.ListTexts(ctx, OrderTitle)
	if err != nil {
		t.Fatalf("list texts: %v", err)
	}
	if titles(byTitle) != "abc" {
		t.Fatalf("unexpected title order: %s", titles(byTitle))
	}
}

func titles(texts []model.Text) string {
	out := ""
	for _, t := range texts {
		out += t.Title
	}
	return out
}

func TestUpsertTexts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	created, err := st.CreateText(ctx, "old", "x")
	if err != nil {
		t.Fatalf("create text: %v", err)
	}
	ts := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	err = st.UpsertTexts(ctx, []model.Text{
		{ID: created.ID, Title: "new", Content: "y", CreatedAt: created.CreatedAt, UpdatedAt: ts},
		{ID: "imported", Title: "other", Content: "z", CreatedAt: ts},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := st.GetText(ctx, created.ID)
	if err != nil || got.Title != "new" || !got.UpdatedAt.Equal(ts) {
		t.Fatalf("unexpected replaced text: %+v %v", got, err)
	}
	imported, err := st.GetText(ctx, "imported")
	if err != nil || !imported.UpdatedAt.Equal(ts) {
		t.Fatalf("unexpected imported text: %+v %v", imported, err)
	}
}

func TestAttemptsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	text, err := st.CreateText(ctx, "江雪", "江山如畫")
	if err != nil {
		t.Fatalf("create text: %v", err)
	}

	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	res := textcmp.CompareChars(text.Content, "江山如", textcmp.Options{})
	attempt := model.Attempt{
		TextID:    text.ID,
		Mode:      textcmp.ModeFull,
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
		Summary:   res.Summary,
	}
	id, err := st.InsertAttempt(ctx, attempt, []model.CharStats{
		{Char: "江", Matches: 1},
		{Char: "畫", Missing: 1},
	})
	if err != nil {
		t.Fatalf("insert attempt: %v", err)
	}

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{TextID: text.ID})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].AttemptID != id {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
	got := attempts[0]
	if got.Mode != textcmp.ModeFull || got.Summary != res.Summary || got.DurationMs != 90000 || got.Perfect {
		t.Fatalf("unexpected attempt: %+v", got)
	}

	aggs, err := st.ListCharAggregates(ctx, []int64{id})
	if err != nil {
		t.Fatalf("list char aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %+v", aggs)
	}

	if err := st.DeleteText(ctx, text.ID); err != nil {
		t.Fatalf("delete text: %v", err)
	}
	attempts, err = st.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected attempts to cascade, got %+v", attempts)
	}
}
