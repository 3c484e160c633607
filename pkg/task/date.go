package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and display layout of a due date.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. It is an identity value, never an instant:
// two dates are the same day only when their strings are equal.
type Date string

// DateOf returns the Date for the year, month and day fields of t as they read in t's
// own location. No zone conversion happens.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates raw and returns it as a Date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return "", err
	}
	return Date(raw), nil
}

// Valid reports whether d is a real calendar date in YYYY-MM-DD form.
func (d Date) Valid() bool {
	if len(d) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time returns midnight UTC of d. ok is false when d is not valid.
func (d Date) Time() (time.Time, bool) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d Date) String() string {
	return string(d)
}

// Clock is a time of day as HH:MM or HH:MM:SS.
type Clock string

// ParseClock validates raw as HH:MM (seconds optional) and returns it in HH:MM form.
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return Clock(t.Format("15:04")), nil
		}
	}
	return "", fmt.Errorf("task: invalid time %q", raw)
}

// Hour returns the hour component. ok is false when the hour is missing or outside 0-23.
func (c Clock) Hour() (int, bool) {
	head, _, _ := strings.Cut(string(c), ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// Short renders the clock as HH:MM.
func (c Clock) Short() string {
	parts := strings.Split(string(c), ":")
	if len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return string(c)
}
