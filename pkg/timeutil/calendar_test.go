package timeutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in, want time.Time
	}{
		{in: date(2024, 3, 13), want: date(2024, 3, 11)},
		{in: date(2024, 3, 11), want: date(2024, 3, 11)},
		{in: date(2024, 3, 17), want: date(2024, 3, 11)},
		{in: date(2024, 3, 1), want: date(2024, 2, 26)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.in.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
	if got := WeekEnd(date(2024, 3, 13)); !got.Equal(date(2024, 3, 17)) {
		t.Errorf("WeekEnd = %s", got)
	}
}

func TestMonthGrid(t *testing.T) {
	first, last := MonthGrid(date(2024, 3, 20))
	if !first.Equal(date(2024, 2, 26)) {
		t.Fatalf("first = %s", first)
	}
	if !last.Equal(date(2024, 3, 31)) {
		t.Fatalf("last = %s", last)
	}
	if n := len(Days(first, last)); n != 35 {
		t.Fatalf("expected 35 days, got %d", n)
	}

	// February 2021 starts on a Monday and ends on a Sunday.
	first, last = MonthGrid(date(2021, 2, 10))
	if !first.Equal(date(2021, 2, 1)) || !last.Equal(date(2021, 2, 28)) {
		t.Fatalf("unexpected grid %s..%s", first, last)
	}
}

func TestAddMonthsClamps(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{in: date(2024, 1, 31), n: 1, want: date(2024, 2, 29)},
		{in: date(2023, 1, 31), n: 1, want: date(2023, 2, 28)},
		{in: date(2024, 3, 31), n: -1, want: date(2024, 2, 29)},
		{in: date(2024, 12, 15), n: 1, want: date(2025, 1, 15)},
		{in: date(2024, 1, 15), n: -1, want: date(2023, 12, 15)},
	}
	for _, tt := range tests {
		if got := AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
			t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestMidnightKeepsFields(t *testing.T) {
	loc := time.FixedZone("east", 14*60*60)
	in := time.Date(2024, 3, 11, 1, 0, 0, 0, loc)
	if got := Midnight(in); !got.Equal(date(2024, 3, 11)) {
		t.Fatalf("Midnight = %s", got)
	}
	if !SameDay(in, date(2024, 3, 11)) {
		t.Fatal("expected same day")
	}
}
