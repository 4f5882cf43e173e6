package utils

import (
	"fmt"
	"time"
)

// DayFormat is the engine's date format for backtest ranges and daily
// price series.
const DayFormat = "2006-01-02"

// Day renders a time as the engine's YYYY-MM-DD day string.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// ValidateRange checks that both dates parse and start is not after end.
func ValidateRange(start, end string) error {
	from, err := time.Parse(DayFormat, start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.Parse(DayFormat, end)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if from.After(to) {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return nil
}
