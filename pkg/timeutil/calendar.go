// Package timeutil holds the calendar arithmetic behind the day, week and month views and
// the look-back windows used by reports.
package timeutil

import "time"

// Midnight returns the start of t's calendar day in UTC, keeping t's year, month and day
// fields as written.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	d := Midnight(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday == 0
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday on or after t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// DaysIn returns the number of days in t's month.
func DaysIn(t time.Time) int {
	return MonthEnd(t).Day()
}

// MonthGrid returns the Monday on or before the first of t's month and the Sunday on or
// after its last day.
func MonthGrid(t time.Time) (first, last time.Time) {
	return WeekStart(MonthStart(t)), WeekEnd(MonthEnd(t))
}

// Days returns every day from first to last inclusive.
func Days(first, last time.Time) []time.Time {
	first, last = Midnight(first), Midnight(last)
	if last.Before(first) {
		return nil
	}
	days := make([]time.Time, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// AddMonths shifts t by n months. When the day does not exist in the target month it is
// clamped to that month's last day, so Jan 31 plus one month is Feb 28 or 29.
func AddMonths(t time.Time, n int) time.Time {
	d := Midnight(t)
	target := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day()
	if last := DaysIn(target); day > last {
		day = last
	}
	return target.AddDate(0, 0, day-1)
}

// SameDay reports whether a and b fall on the same calendar day as written.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
