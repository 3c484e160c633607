package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is used by reports and invite expiry when no window is given.
	DefaultWindow = "1w"

	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units          = map[string]time.Duration{
		"h":      time.Hour,
		"hr":     time.Hour,
		"hrs":    time.Hour,
		"hour":   time.Hour,
		"hours":  time.Hour,
		"d":      day,
		"day":    day,
		"days":   day,
		"w":      week,
		"wk":     week,
		"week":   week,
		"weeks":  week,
		"mo":     month,
		"month":  month,
		"months": month,
	}
)

// Window is a look-back or look-ahead span such as "1w" or "2d12h".
type Window struct {
	Duration time.Duration
	Label    string
}

// ParseWindow parses a compact span ("3d", "1w2d", "1mo"). Empty input yields DefaultWindow.
func ParseWindow(input string) (Window, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var total time.Duration
	for len(remaining) > 0 {
		m := segmentPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return Window{}, fmt.Errorf("timeutil: invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Window{}, fmt.Errorf("timeutil: invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return Window{}, fmt.Errorf("timeutil: unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = strings.TrimSpace(remaining[len(m[0]):])
	}
	if total <= 0 {
		return Window{}, fmt.Errorf("timeutil: window must be greater than zero")
	}
	return Window{Duration: total, Label: FormatWindow(total)}, nil
}

// Since returns the window ending at now.
func (w Window) Since(now time.Time) (since, until time.Time) {
	return now.Add(-w.Duration), now
}

// After returns the instant one window after now.
func (w Window) After(now time.Time) time.Time {
	return now.Add(w.Duration)
}

// FormatWindow renders d with week, day and hour tokens. Sub-hour remainders are dropped.
func FormatWindow(d time.Duration) string {
	if d < time.Hour {
		return "0h"
	}
	var b strings.Builder
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}} {
		if d < u.size {
			continue
		}
		count := d / u.size
		d -= count * u.size
		fmt.Fprintf(&b, "%d%s", count, u.label)
	}
	return b.String()
}
