package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	parsed, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(parsed.AddDate(0, 0, n)), nil
}

// DateRange returns every date from start through end inclusive.
// An end before start yields an empty slice.
func DateRange(start, end string) ([]string, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates, nil
}

// Today returns the current calendar date in loc (UTC when loc is nil).
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(now.In(loc))
}

// ParseUTCOffset parses a "±HH:MM" offset such as "-06:00" into a duration east of UTC.
func ParseUTCOffset(offset string) (time.Duration, error) {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return 0, fmt.Errorf("timeutil: offset %q is not ±HH:MM", offset)
	}
	hh, errH := strconv.Atoi(offset[1:3])
	mm, errM := strconv.Atoi(offset[4:6])
	if errH != nil || errM != nil || hh > 23 || mm > 59 {
		return 0, fmt.Errorf("timeutil: offset %q is not ±HH:MM", offset)
	}
	d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	if offset[0] == '-' {
		d = -d
	}
	return d, nil
}

// FixedZone returns a location for a "±HH:MM" offset.
func FixedZone(offset string) (*time.Location, error) {
	d, err := ParseUTCOffset(offset)
	if err != nil {
		return nil, err
	}
	return time.FixedZone(offset, int(d/time.Second)), nil
}
