/*
Package calendar provides the calendar-day abstraction used everywhere in the
payroll engine.

PURPOSE:
  Payroll arithmetic is day-granular: paydays, time cards, sales receipts and
  service charges are all keyed by calendar day. Date is a small comparable
  value (usable as a map key) with the arithmetic the schedule and pay
  calculators need.

TEXTUAL CONVENTION:
  Dates are exchanged as "d/M/yyyy" text (e.g. "1/2/2005", "28/12/2005").
  Parse rejects anything that is not a real calendar day, including
  non-leap-year February 29.

SEE ALSO:
  - schedule: payday determination over Dates
  - payroll: period aggregation between Dates
*/
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day. The zero value is not a valid date; use New or
// Parse. Date is comparable and safe to use as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Never is the sentinel "never paid" date, before any real payroll date.
var Never = Date{Year: 1, Month: time.January, Day: 1}

func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Parse reads a "d/M/yyyy" date and validates it is a real calendar day.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("malformed date %q", s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, fmt.Errorf("malformed date %q", s)
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("invalid calendar day %q", s)
	}
	return d, nil
}

// Valid reports whether the date names a real calendar day.
func (d Date) Valid() bool {
	if d.Year == 0 || d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// String renders the date in the "d/M/yyyy" convention, without zero padding.
func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Day, int(d.Month), d.Year)
}

// MarshalText and UnmarshalText make Date usable as a JSON map key.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func fromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Comparison
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) BeforeOrEqual(other Date) bool {
	return !d.After(other)
}
func (d Date) AfterOrEqual(other Date) bool {
	return !d.Before(other)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return fromTime(d.time().AddDate(0, 0, n)) }

func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// DaysBetween returns the whole-day distance from one date to the other.
func DaysBetween(from, to Date) int {
	return int(to.time().Sub(from.time()).Hours() / 24)
}

// DaysInMonth returns the length of the given month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// EndOfMonth returns the last calendar day of the date's month.
func (d Date) EndOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// LastWorkdayOfMonth returns the last Mon-Fri day of the date's month.
func (d Date) LastWorkdayOfMonth() Date {
	last := d.EndOfMonth()
	for last.Weekday() == time.Saturday || last.Weekday() == time.Sunday {
		last = last.AddDays(-1)
	}
	return last
}

// PreviousOrSameWeekday walks backwards from d to the nearest occurrence of
// the given weekday, possibly d itself.
func (d Date) PreviousOrSameWeekday(w time.Weekday) Date {
	diff := (int(d.Weekday()) - int(w) + 7) % 7
	return d.AddDays(-diff)
}
