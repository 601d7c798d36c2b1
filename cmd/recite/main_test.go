package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/recite/internal/config"
	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/textcmp"
)

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Stats.WeakTop != nil {
		t.Fatalf("expected commented template to set nothing: %+v", cfg)
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput("", strings.NewReader("from stdin"))
	if err != nil || got != "from stdin" {
		t.Fatalf("stdin: got %q, %v", got, err)
	}
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = readInput(path, strings.NewReader("ignored"))
	if err != nil || got != "from file" {
		t.Fatalf("file: got %q, %v", got, err)
	}
	if _, err := readInput(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig(statsFlags{since: "2024-03-01", last: 5, curveWindow: 3, weakTop: 2})
	if err != nil {
		t.Fatalf("buildStatsConfig failed: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Last != 5 || cfg.CurveWindow != 3 || cfg.WeakTop != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	bad := []statsFlags{
		{since: "03/01/2024", curveWindow: 1, weakTop: 1},
		{last: -1, curveWindow: 1, weakTop: 1},
		{curveWindow: 0, weakTop: 1},
		{curveWindow: 1, weakTop: -1},
		{curveWindow: 1, weakTop: 0},
	}
	for _, flags := range bad {
		if _, err := buildStatsConfig(flags); err == nil {
			t.Fatalf("expected error for %+v", flags)
		}
	}
}

func TestFindText(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "recite.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	ctx := context.Background()
	created, err := st.CreateText(ctx, "Poem", "line one")
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}

	for _, ref := range []string{created.ID, "Poem", shortID(created.ID)} {
		got, err := findText(ctx, st, ref)
		if err != nil || got.ID != created.ID {
			t.Fatalf("ref %q: got %+v, %v", ref, got, err)
		}
	}
	if _, err := findText(ctx, st, "nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRenderCheckChars(t *testing.T) {
	res := textcmp.CompareChars("abc", "abd", textcmp.Options{})
	var buf bytes.Buffer
	if err := renderCheckChars(&buf, res, newCheckStyles(false), 80); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Differs  accuracy 66.67%  match 2  wrong 1  missing 0  extra 0") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "#3    c → d") {
		t.Fatalf("expected mismatch cell:\n%s", out)
	}
}

func TestRenderCheckFullPerfect(t *testing.T) {
	res := textcmp.CompareFull("a b", "a  b", textcmp.Options{})
	var buf bytes.Buffer
	if err := renderCheckFull(&buf, res, newCheckStyles(false)); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Perfect" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestWriteColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := writeColumns(&buf, []string{"aa", "bb", "cc"}, 8); err != nil {
		t.Fatalf("writeColumns failed: %v", err)
	}
	if buf.String() != "aa  bb\ncc\n" {
		t.Fatalf("unexpected layout: %q", buf.String())
	}
}
