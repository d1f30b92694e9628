package timeutil

import (
	"fmt"
	"log"
	"time"
)

// Common layouts
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006, 03:04 PM"
)

// Date is a calendar day in the service time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Clock is the single source of "now" and "today" for the service. Workflow
// timestamps and date-scoped queries both go through it so a meal stamped
// just before midnight lands on the same day the history views look at.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock builds a clock for the named IANA zone. An unknown zone falls back
// to UTC.
func NewClock(zone string) *Clock {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		log.Printf("[Clock] Unknown time zone %q, falling back to UTC: %v", zone, err)
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock returns a clock frozen at t, for tests.
func NewFixedClock(loc *time.Location, t time.Time) *Clock {
	return &Clock{loc: loc, now: func() time.Time { return t }}
}

// WithNow replaces the time source.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

// Location returns the service time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the service time zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current service date.
func (c *Clock) Today() Date {
	return c.DateOf(c.now())
}

// DateOf returns the calendar day of t in the service time zone.
func (c *Clock) DateOf(t time.Time) Date {
	local := t.In(c.loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// SameDay reports whether t falls on day d.
func (c *Clock) SameDay(t time.Time, d Date) bool {
	return c.DateOf(t) == d
}

// ParseDate parses a YYYY-MM-DD value. An empty value means today.
func (c *Clock) ParseDate(value string) (Date, error) {
	if value == "" {
		return c.Today(), nil
	}
	t, err := time.ParseInLocation(DateLayout, value, c.loc)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Format formats t in the service time zone.
func (c *Clock) Format(t time.Time, layout string) string {
	return t.In(c.loc).Format(layout)
}
