package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	w, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Duration != 7*24*time.Hour {
		t.Fatalf("expected one week, got %v", w.Duration)
	}
	if w.Label != "1w" {
		t.Fatalf("expected label 1w, got %s", w.Label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	w, err := ParseWindow("1w 2d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24 + 2*24 + 6) * time.Hour
	if w.Duration != want {
		t.Fatalf("expected %v, got %v", want, w.Duration)
	}
	if w.Label != "1w2d6h" {
		t.Fatalf("expected canonical label, got %s", w.Label)
	}
}

func TestParseWindowMonth(t *testing.T) {
	w, err := ParseWindow("1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Label != "4w2d" {
		t.Fatalf("expected 4w2d, got %s", w.Label)
	}
}

func TestParseWindowErrors(t *testing.T) {
	for _, in := range []string{"abc", "3", "2y", "0d"} {
		if _, err := ParseWindow(in); err == nil {
			t.Errorf("ParseWindow(%q) expected error", in)
		}
	}
}

func TestWindowSince(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	w := Window{Duration: 48 * time.Hour}
	since, until := w.Since(now)
	if !until.Equal(now) || !since.Equal(now.Add(-48*time.Hour)) {
		t.Fatalf("unexpected bounds %v..%v", since, until)
	}
	if got := w.After(now); !got.Equal(now.Add(48 * time.Hour)) {
		t.Fatalf("After = %v", got)
	}
}
