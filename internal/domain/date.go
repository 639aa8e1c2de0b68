package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates (billing and paid dates).
const dateLayout = "2006-01-02"

// Date is a calendar day without a time-of-day component. Billing and paid
// dates are civil dates, not instants, so they are normalized to midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date from a calendar year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in ISO "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date in ISO "2006-01-02" form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a "2006-01-02" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "2006-01-02" JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal reports whether two dates fall on the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

// AddWeeks returns the date n weeks later.
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// AddMonths returns the date n months later with end-of-month clamping:
// Jan 31 plus one month is the last day of February, never a day in March.
// Go's time.AddDate normalizes overflow instead of clamping, so the target
// day is clamped to the length of the target month explicitly.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Date()
	total := int(m) - 1 + n
	year := y + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}
	if last := daysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// AddYears returns the date n years later, clamping Feb 29 to Feb 28 on
// non-leap years.
func (d Date) AddYears(n int) Date {
	y, m, day := d.Date()
	year := y + n
	if last := daysIn(year, m); day > last {
		day = last
	}
	return NewDate(year, m, day)
}

func daysIn(year int, month time.Month) int {
	// The zeroth day of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
