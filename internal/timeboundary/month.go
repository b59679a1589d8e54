package timeboundary

import (
	"errors"
	"fmt"
	"time"
)

// DefaultOffsetMinutes is the fixed civil offset (UTC+8) the ledger calendar uses.
const DefaultOffsetMinutes = 480

const monthKeyLayout = "2006-01"

var ErrInvalidMonthKey = errors.New("timeboundary: invalid month key")

// MonthKey is a civil calendar month in the form YYYY-MM.
type MonthKey string

// CivilMonthKey returns the civil month containing t, as observed at the
// given fixed offset from UTC.
func CivilMonthKey(t time.Time, offsetMinutes int) MonthKey {
	shifted := t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return MonthKey(shifted.Format(monthKeyLayout))
}

// MonthKeyFor returns the month key for year/month without any offset shift.
func MonthKeyFor(year int, month time.Month) MonthKey {
	return MonthKey(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(monthKeyLayout))
}

// MonthBoundsUTC returns the inclusive UTC range covering the civil month.
// from is local midnight of the first day, to is 23:59:59.999 local on the
// last day. Consecutive months tile at millisecond resolution.
func MonthBoundsUTC(year int, month time.Month, offsetMinutes int) (from, to time.Time) {
	offset := time.Duration(offsetMinutes) * time.Minute
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)

	from = start.Add(-offset)
	to = next.Add(-offset).Add(-time.Millisecond)
	return from, to
}

// ParseMonthKey validates s as a YYYY-MM month key.
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != len(monthKeyLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	if _, err := time.Parse(monthKeyLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey(s), nil
}

// YearMonth returns the year and month encoded in the key. The key must be valid.
func (m MonthKey) YearMonth() (int, time.Month) {
	t, err := time.Parse(monthKeyLayout, string(m))
	if err != nil {
		return 0, 0
	}
	return t.Year(), t.Month()
}

// Bounds returns the UTC range of the month at the given offset.
func (m MonthKey) Bounds(offsetMinutes int) (from, to time.Time) {
	year, month := m.YearMonth()
	return MonthBoundsUTC(year, month, offsetMinutes)
}

func (m MonthKey) Next() MonthKey {
	year, month := m.YearMonth()
	return MonthKey(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).Format(monthKeyLayout))
}

func (m MonthKey) Prev() MonthKey {
	year, month := m.YearMonth()
	return MonthKey(time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC).Format(monthKeyLayout))
}

func (m MonthKey) String() string {
	return string(m)
}
