package view

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDefaults(t *testing.T) {
	m := New(Options{Today: time.Date(2024, 3, 13, 15, 4, 0, 0, time.UTC)})
	s := m.State()

	if s.Kind != KindDay || s.Mode != ModeCalendar {
		t.Fatalf("unexpected state %+v", s)
	}
	if !s.Date.Equal(day(2024, 3, 13)) {
		t.Errorf("date = %s", s.Date)
	}
}

func TestNewHonoursOfferedDefault(t *testing.T) {
	m := New(Options{Mode: ModeCalendar, Default: KindList, Today: day(2024, 3, 13)})
	if got := m.State().Kind; got != KindList {
		t.Errorf("kind = %s", got)
	}

	m = New(Options{Mode: ModeTasks, Default: KindKanban, Today: day(2024, 3, 13)})
	if got := m.State().Kind; got != KindDay {
		t.Errorf("tasks mode does not offer kanban, got %s", got)
	}
}

func TestSwitchKeepsDate(t *testing.T) {
	m := New(Options{Today: day(2024, 3, 13)})
	if err := m.Switch(KindMonth); err != nil {
		t.Fatal(err)
	}

	s := m.State()
	if s.Kind != KindMonth || !s.Date.Equal(day(2024, 3, 13)) {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestSwitchRejectsKindOutsideMode(t *testing.T) {
	m := New(Options{Mode: ModeTasks, Today: day(2024, 3, 13)})
	if err := m.Switch(KindKanban); !errors.Is(err, ErrNotOffered) {
		t.Fatalf("expected ErrNotOffered, got %v", err)
	}
	if got := m.State().Kind; got != KindDay {
		t.Fatalf("state changed to %s", got)
	}
	if err := m.Switch(KindWeek); err != nil {
		t.Fatal(err)
	}
	if got := m.State().Kind; got != KindWeek {
		t.Errorf("kind = %s", got)
	}
}

func TestDayClicked(t *testing.T) {
	m := New(Options{Today: day(2024, 3, 13)})
	if err := m.Switch(KindMonth); err != nil {
		t.Fatal(err)
	}
	m.DayClicked(time.Date(2024, 3, 21, 18, 0, 0, 0, time.UTC))

	s := m.State()
	if s.Kind != KindDay || !s.Date.Equal(day(2024, 3, 21)) {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestPrevNext(t *testing.T) {
	tests := []struct {
		kind Kind
		from time.Time
		next time.Time
		prev time.Time
	}{
		{kind: KindDay, from: day(2024, 2, 29), next: day(2024, 3, 1), prev: day(2024, 2, 28)},
		{kind: KindWeek, from: day(2024, 3, 13), next: day(2024, 3, 20), prev: day(2024, 3, 6)},
		{kind: KindMonth, from: day(2024, 1, 31), next: day(2024, 2, 29), prev: day(2023, 12, 31)},
		{kind: KindList, from: day(2024, 3, 13), next: day(2024, 3, 13), prev: day(2024, 3, 13)},
		{kind: KindKanban, from: day(2024, 3, 13), next: day(2024, 3, 13), prev: day(2024, 3, 13)},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m := New(Options{Today: tt.from})
			if err := m.Switch(tt.kind); err != nil {
				t.Fatal(err)
			}

			m.Next()
			if s := m.State(); !s.Date.Equal(tt.next) || s.Kind != tt.kind {
				t.Errorf("next: got %s %s, want %s", s.Kind, s.Date, tt.next)
			}

			m.SetDate(tt.from)
			m.Prev()
			if got := m.State().Date; !got.Equal(tt.prev) {
				t.Errorf("prev: got %s, want %s", got, tt.prev)
			}
		})
	}
}

func TestSetModeFallsBackToDay(t *testing.T) {
	m := New(Options{Today: day(2024, 3, 13)})
	if err := m.Switch(KindMonth); err != nil {
		t.Fatal(err)
	}

	m.SetMode(ModeTasks)
	s := m.State()
	if s.Mode != ModeTasks || s.Kind != KindDay || !s.Date.Equal(day(2024, 3, 13)) {
		t.Fatalf("unexpected state %+v", s)
	}

	if err := m.Switch(KindWeek); err != nil {
		t.Fatal(err)
	}
	m.SetMode(ModeCalendar)
	if got := m.State().Kind; got != KindWeek {
		t.Errorf("still offered kinds are kept, got %s", got)
	}
}

func TestAllowed(t *testing.T) {
	if got := Allowed(ModeTasks); !reflect.DeepEqual(got, []Kind{KindDay, KindWeek}) {
		t.Errorf("tasks mode offers %v", got)
	}
	if got := Allowed(ModeCalendar); !reflect.DeepEqual(got, Kinds()) {
		t.Errorf("calendar mode offers %v", got)
	}
}

func TestParse(t *testing.T) {
	k, err := ParseKind(" Week ")
	if err != nil || k != KindWeek {
		t.Fatalf("ParseKind = %s, %v", k, err)
	}
	if _, err := ParseKind("agenda"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	mode, err := ParseMode("")
	if err != nil || mode != ModeCalendar {
		t.Fatalf("ParseMode = %s, %v", mode, err)
	}
	if _, err := ParseMode("focus"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestSubscribeSeesLatest(t *testing.T) {
	m := New(Options{Today: day(2024, 3, 13)})
	done := make(chan struct{})
	ch := m.Subscribe(done)

	m.Next()
	m.Next()
	if got := <-ch; !got.Date.Equal(day(2024, 3, 15)) {
		t.Errorf("date = %s", got.Date)
	}

	m.SetUser(User{ID: "u1", Name: "Sam"})
	if got := <-ch; got.User.Name != "Sam" {
		t.Errorf("user = %+v", got.User)
	}

	close(done)
	for range ch {
	}
}

func TestConcurrentReaders(t *testing.T) {
	m := New(Options{Today: day(2024, 3, 13)})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.State()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		m.Next()
	}
	wg.Wait()
	if got, want := m.State().Date, day(2024, 3, 13).AddDate(0, 0, 100); !got.Equal(want) {
		t.Errorf("date = %s, want %s", got, want)
	}
}
