package models

import (
	"fmt"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar day counted from 1970-01-01.
// Dates compare chronologically with the ordinary integer operators.
type Date int32

// Layouts accepted by ParseDate, in order of preference
var dateLayouts = []string{"02-01-2006", "2006-01-02"}

// NewDate builds a Date from its calendar components
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// DateOf returns the calendar day of t as seen in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses DD-MM-YYYY or YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return 0, fmt.Errorf("invalid date %q", s)
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Display formats the date the way operators type it
func (d Date) Display() string {
	return d.Time().Format("02-01-2006")
}

// Period is an inclusive date range
type Period struct {
	Start Date
	End   Date
}

// Valid reports whether the start does not come after the end
func (p Period) Valid() bool {
	return p.Start <= p.End
}

// Days returns the number of days covered by the period
func (p Period) Days() int {
	if !p.Valid() {
		return 0
	}
	return int(p.End-p.Start) + 1
}
