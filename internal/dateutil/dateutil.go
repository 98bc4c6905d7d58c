// Package dateutil holds the date formats shared by the quiz window
// configuration, the result history and the CSV export.
package dateutil

import (
	"fmt"
	"time"
)

const dayLayout = "02.01.2006"

// ParseDay parses a DD.MM.YYYY date as the start of that day in UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseDayEnd parses a DD.MM.YYYY date as the last instant of that day in UTC.
func ParseDayEnd(s string) (time.Time, error) {
	t, err := ParseDay(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Millisecond), nil
}

// FormatDate renders a timestamp as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as DD/MM/YYYY HH:MM:SS.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// FormatDuration renders a duration as "1ч 2мин 3сек".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := total % 3600 / 60
	seconds := total % 60
	return fmt.Sprintf("%dч %dмин %dсек", hours, minutes, seconds)
}
