package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the boundary format for calendar days.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day. The zero value is not a valid day.
type Date struct {
	t time.Time
}

// ParseDate strictly parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: expected YYYY-MM-DD", ErrInvalidInput, raw)
	}
	return Date{t: t}, nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// NewDate builds a date, normalizing overflowing components like time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether d was never set.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

// String formats the day as YYYY-MM-DD.
func (d Date) String() string { return d.t.Format(DateLayout) }

// AddDays shifts the day by n (negative moves backwards).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysSince returns how many days d lies after earlier; negative when earlier is in the future.
func (d Date) DaysSince(earlier Date) int {
	return int(d.t.Sub(earlier.t).Hours() / 24)
}

// MarshalText keeps dates in YYYY-MM-DD form in JSON and YAML.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
