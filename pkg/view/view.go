// Package view holds the session-wide view state: which view kind is showing, the date it
// is centred on, the app mode and the signed-in user's display fields.
//
// A Machine is created once per session and handed to every view. Its setters are the
// only way to change the state; any number of readers may call State concurrently.
package view

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/taskflow/pkg/timeutil"
)

var (
	// ErrNotOffered is returned when switching to a kind the current mode does not offer.
	ErrNotOffered = errors.New("view: kind not offered in this mode")
	// ErrUnknownKind is returned when parsing an unrecognised view kind.
	ErrUnknownKind = errors.New("view: unknown kind")
	// ErrUnknownMode is returned when parsing an unrecognised app mode.
	ErrUnknownMode = errors.New("view: unknown mode")
)

// Kind is a way of presenting tasks.
type Kind string

const (
	KindList   Kind = "list"
	KindKanban Kind = "kanban"
	KindDay    Kind = "day"
	KindWeek   Kind = "week"
	KindMonth  Kind = "month"
)

// Kinds returns every kind in switcher order.
func Kinds() []Kind {
	return []Kind{KindList, KindKanban, KindDay, KindWeek, KindMonth}
}

// ParseKind converts raw input to a Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range Kinds() {
		if candidate == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, raw)
}

// Dated reports whether the kind is centred on a reference date.
func (k Kind) Dated() bool {
	return k == KindDay || k == KindWeek || k == KindMonth
}

// Mode is the per-user preference that decides which kinds are offered.
type Mode string

const (
	ModeTasks    Mode = "tasks"
	ModeCalendar Mode = "calendar"
)

// DefaultMode is used when a profile has no stored preference.
const DefaultMode = ModeCalendar

// ParseMode converts raw input to a Mode. Empty input yields DefaultMode.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return DefaultMode, nil
	case ModeTasks, ModeCalendar:
		return m, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, raw)
}

// Allowed returns the kinds offered in mode, in switcher order.
func Allowed(mode Mode) []Kind {
	if mode == ModeTasks {
		return []Kind{KindDay, KindWeek}
	}
	return Kinds()
}

// Offers reports whether mode offers kind.
func Offers(mode Mode, kind Kind) bool {
	for _, k := range Allowed(mode) {
		if k == kind {
			return true
		}
	}
	return false
}

// User is the display identity shown in the chrome.
type User struct {
	ID        string
	Name      string
	AvatarURL string
}

// State is a point-in-time copy of the view state.
type State struct {
	Kind Kind
	// Date is the reference date at midnight UTC. Only dated kinds use it.
	Date time.Time
	Mode Mode
	User User
}

// Options seed a new Machine.
type Options struct {
	Mode Mode
	// Default is the preferred initial kind. It is used only when the mode offers it.
	Default Kind
	// Today is the initial reference date. Zero means time.Now().
	Today time.Time
	User  User
}

// Machine is the view state of one session.
type Machine struct {
	mu       sync.RWMutex
	state    State
	watchers []chan State
}

// New returns a Machine starting on the day view unless opts names another offered kind.
func New(opts Options) *Machine {
	mode := opts.Mode
	if mode == "" {
		mode = DefaultMode
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	kind := KindDay
	if opts.Default != "" && Offers(mode, opts.Default) {
		kind = opts.Default
	}
	return &Machine{state: State{
		Kind: kind,
		Date: timeutil.Midnight(today),
		Mode: mode,
		User: opts.User,
	}}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Switch changes the view kind and keeps the reference date.
func (m *Machine) Switch(kind Kind) error {
	return m.update(func(s *State) error {
		if !Offers(s.Mode, kind) {
			return fmt.Errorf("%w: %s in %s mode", ErrNotOffered, kind, s.Mode)
		}
		s.Kind = kind
		return nil
	})
}

// DayClicked opens the day view on date.
func (m *Machine) DayClicked(date time.Time) {
	_ = m.update(func(s *State) error {
		s.Kind = KindDay
		s.Date = timeutil.Midnight(date)
		return nil
	})
}

// SetDate moves the reference date without changing the kind.
func (m *Machine) SetDate(date time.Time) {
	_ = m.update(func(s *State) error {
		s.Date = timeutil.Midnight(date)
		return nil
	})
}

// Next moves the reference date forward by one day, week or month depending on the kind.
// List and kanban views are not dated and ignore it.
func (m *Machine) Next() {
	m.step(1)
}

// Prev moves the reference date back by one day, week or month depending on the kind.
func (m *Machine) Prev() {
	m.step(-1)
}

func (m *Machine) step(dir int) {
	_ = m.update(func(s *State) error {
		switch s.Kind {
		case KindDay:
			s.Date = s.Date.AddDate(0, 0, dir)
		case KindWeek:
			s.Date = s.Date.AddDate(0, 0, 7*dir)
		case KindMonth:
			s.Date = timeutil.AddMonths(s.Date, dir)
		}
		return nil
	})
}

// SetMode changes the app mode. When the current kind is no longer offered the view falls
// back to day.
func (m *Machine) SetMode(mode Mode) {
	_ = m.update(func(s *State) error {
		s.Mode = mode
		if !Offers(mode, s.Kind) {
			s.Kind = KindDay
		}
		return nil
	})
}

// SetUser replaces the display identity.
func (m *Machine) SetUser(u User) {
	_ = m.update(func(s *State) error {
		s.User = u
		return nil
	})
}

// Subscribe returns a channel receiving the state after every change. Slow readers only
// see the latest state. The channel is closed when done is closed.
func (m *Machine) Subscribe(done <-chan struct{}) <-chan State {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-done
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch
}

func (m *Machine) update(fn func(*State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state
	if err := fn(&next); err != nil {
		return err
	}
	if next == m.state {
		return nil
	}
	m.state = next
	for _, w := range m.watchers {
		select {
		case <-w:
		default:
		}
		w <- next
	}
	return nil
}
