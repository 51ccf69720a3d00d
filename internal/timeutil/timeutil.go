// Package timeutil holds timestamp parsing and calendar-day
// arithmetic shared by decoding and analytics.
package timeutil

import "time"

// DateLayout is the label format for calendar days.
const DateLayout = "2006-01-02"

// Parse accepts RFC3339Nano and RFC3339 timestamps. Returns
// false for anything else, including "".
func Parse(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// Day is a civil calendar date with no time zone attached.
// Arithmetic on Day is done in UTC so DST transitions in the
// source location never add or drop a day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.utc().AddDate(0, 0, n), time.UTC)
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	return d.utc().Before(o.utc())
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return d.utc().Format(DateLayout)
}

// DaysBetween returns the number of whole calendar days from
// a to b. Negative when b is before a.
func DaysBetween(a, b Day) int {
	return int(b.utc().Sub(a.utc()) / (24 * time.Hour))
}
