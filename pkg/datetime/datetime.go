package datetime

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted from the backend, most specific first.
var apiLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Layouts accepted from a user typing a date.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseAPITime parses a timestamp sent by the backend. Values without an offset are
// read in loc.
func ParseAPITime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range apiLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// CombineDateTime joins a separate date ("2006-01-02") and clock ("15:04[:05]").
// An empty clock means midnight.
func CombineDateTime(dateStr, clockStr string, loc *time.Location) (time.Time, error) {
	d, err := ParseAPITime(dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	clockStr = strings.TrimSpace(clockStr)
	if clockStr == "" {
		return d, nil
	}
	c, err := parseClock(clockStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, d.Location()), nil
}

// ParseEventDateTime parses a date (AAAA-MM-JJ or JJ/MM/AAAA) and a time (HH:MM) typed
// by a user, in loc.
func ParseEventDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if dateStr == "" || timeStr == "" {
		return time.Time{}, fmt.Errorf("date and time are required (YYYY-MM-DD and HH:MM)")
	}
	if loc == nil {
		loc = time.Local
	}
	var tDate time.Time
	var err error
	for _, layout := range dateLayouts {
		if tDate, err = time.Parse(layout, dateStr); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, e.g. 2025-02-15)", dateStr)
	}
	tTime, err := parseClock(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM, e.g. 14:00)", timeStr)
	}
	return time.Date(tDate.Year(), tDate.Month(), tDate.Day(),
		tTime.Hour(), tTime.Minute(), 0, 0, loc), nil
}

// ParseUserDateTime accepts "YYYY-MM-DDTHH:MM", "YYYY-MM-DD HH:MM" or "JJ/MM/AAAA HH:MM".
func ParseUserDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i > 0 {
		return ParseEventDateTime(s[:i], s[i+1:], loc)
	}
	return ParseEventDateTime(s, "", loc)
}

func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Mon 02 Jan 2006 15:04")
}

func parseClock(s string) (time.Time, error) {
	var err error
	for _, layout := range clockLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
