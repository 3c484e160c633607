package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2020-2-28", --on="2/28", --on=tomorrow.`)
}

// GetOn returns the requested date, or now when no date was given. Short dates without a
// year land on the next occurrence of that day.
func (o *OnOptions) GetOn(now time.Time) (time.Time, error) {
	return ParseDay(o.OnString, now)
}

// ParseDay parses the date forms accepted by --on.
func ParseDay(raw string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	t, err := time.Parse(layoutISO, raw)
	if err != nil {
		// Let the year be the same.
		t, err = time.Parse(layoutISOShort, raw)
		if err != nil {
			return time.Time{}, err
		}
		t = t.AddDate(now.Year(), 0, 0)
		// I am gonna assume if you said 1/3 on 12/5, you meant next year, not 11 months ago.
		if t.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return t, nil
}
