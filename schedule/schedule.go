/*
Package schedule decides whether a calendar date is a payday.

PURPOSE:
  A pay schedule is described by a small closed grammar:

    monthly <1..28>      paid on that day of every month
    monthly $            paid on the last business day (Mon-Fri) of the month
    weekly <1..7>        paid every week on that weekday (1=Mon .. 7=Sun)
    weekly <N> <1..7>    paid every Nth week on that weekday (N in 1..52)

  Descriptors are validated at creation time; IsPayDate is total over any
  well-formed schedule and any date.

ANCHORING:
  "Every Nth week" needs a stable reference so the cadence does not depend
  on any employee's hire date. The anchor is the first occurrence of the
  schedule's weekday on or before a fixed epoch (7 January 2005), shifted
  forward by N-1 weeks for multi-week cadences. Dates before the anchor are
  never paydays.

SEE ALSO:
  - Registry: the set of descriptors employees may be assigned
*/
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warp/payroll-engine/calendar"
)

var (
	// ErrInvalidDescriptor is returned for text outside the grammar.
	ErrInvalidDescriptor = errors.New("invalid schedule descriptor")

	// ErrAlreadyRegistered is returned when registering a duplicate descriptor.
	ErrAlreadyRegistered = errors.New("schedule descriptor already registered")

	// ErrNotRegistered is returned when assigning a descriptor outside the registry.
	ErrNotRegistered = errors.New("schedule descriptor not registered")
)

// epoch anchors multi-week cadences. Chosen so that "weekly 2 5" (biweekly
// Friday) pays on the historically expected Fridays.
var epoch = calendar.New(2005, time.January, 7)

type cadence int

const (
	monthlyDay cadence = iota
	monthlyLastWorkday
	weekly
)

// Schedule is a parsed, validated pay schedule descriptor.
type Schedule struct {
	descriptor string
	cadence    cadence
	dayOfMonth int          // monthlyDay
	weekday    time.Weekday // weekly
	frequency  int          // weekly; 1 for plain weekly
}

// Parse validates a descriptor against the grammar and returns the schedule.
func Parse(descriptor string) (Schedule, error) {
	parts := strings.Fields(descriptor)
	if len(parts) < 2 || len(parts) > 3 {
		return Schedule{}, ErrInvalidDescriptor
	}

	switch parts[0] {
	case "monthly":
		if len(parts) != 2 {
			return Schedule{}, ErrInvalidDescriptor
		}
		if parts[1] == "$" {
			return Schedule{descriptor: descriptor, cadence: monthlyLastWorkday}, nil
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil || day < 1 || day > 28 {
			return Schedule{}, ErrInvalidDescriptor
		}
		return Schedule{descriptor: descriptor, cadence: monthlyDay, dayOfMonth: day}, nil

	case "weekly":
		frequency := 1
		weekdayText := parts[1]
		if len(parts) == 3 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 || n > 52 {
				return Schedule{}, ErrInvalidDescriptor
			}
			frequency = n
			weekdayText = parts[2]
		}
		wd, err := strconv.Atoi(weekdayText)
		if err != nil || wd < 1 || wd > 7 {
			return Schedule{}, ErrInvalidDescriptor
		}
		return Schedule{
			descriptor: descriptor,
			cadence:    weekly,
			weekday:    isoWeekday(wd),
			frequency:  frequency,
		}, nil
	}
	return Schedule{}, ErrInvalidDescriptor
}

// MustParse is for descriptors known valid at compile time (defaults, tests).
func MustParse(descriptor string) Schedule {
	s, err := Parse(descriptor)
	if err != nil {
		panic(fmt.Sprintf("schedule: %v: %q", err, descriptor))
	}
	return s
}

func (s Schedule) Descriptor() string { return s.descriptor }

// IsMonthly reports whether the schedule is month-cadenced. Monthly-salaried
// employees get calendar-month union dues instead of elapsed-day dues.
func (s Schedule) IsMonthly() bool { return s.cadence != weekly }

// Frequency returns the every-N-weeks multiplier (1 for monthly schedules,
// which never prorate).
func (s Schedule) Frequency() int {
	if s.cadence != weekly {
		return 1
	}
	return s.frequency
}

// IsPayDate reports whether the date is a payday under this schedule.
func (s Schedule) IsPayDate(date calendar.Date) bool {
	switch s.cadence {
	case monthlyLastWorkday:
		return date == date.LastWorkdayOfMonth()
	case monthlyDay:
		return date.Day == s.dayOfMonth
	case weekly:
		if date.Weekday() != s.weekday {
			return false
		}
		anchor := epoch.PreviousOrSameWeekday(s.weekday)
		if s.frequency > 1 {
			anchor = anchor.AddDays(7 * (s.frequency - 1))
		}
		if date.Before(anchor) {
			return false
		}
		weeks := calendar.DaysBetween(anchor, date) / 7
		return weeks%s.frequency == 0
	}
	return false
}

// isoWeekday maps 1=Mon..7=Sun onto time.Weekday.
func isoWeekday(n int) time.Weekday {
	return time.Weekday(n % 7)
}

// =============================================================================
// REGISTRY - The process-wide set of assignable descriptors
// =============================================================================

// Registry holds the descriptors employees may be assigned. It is owned by
// whoever constructs it (never a hidden singleton) and seeds three defaults,
// one per compensation variant.
type Registry struct {
	schedules map[string]Schedule
	order     []string
}

var defaults = []string{"weekly 5", "monthly $", "weekly 2 5"}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Register validates the descriptor grammar and adds it to the registry.
func (r *Registry) Register(descriptor string) error {
	s, err := Parse(descriptor)
	if err != nil {
		return err
	}
	if _, ok := r.schedules[descriptor]; ok {
		return ErrAlreadyRegistered
	}
	r.schedules[descriptor] = s
	r.order = append(r.order, descriptor)
	return nil
}

// Lookup returns the parsed schedule for a registered descriptor.
func (r *Registry) Lookup(descriptor string) (Schedule, error) {
	s, ok := r.schedules[descriptor]
	if !ok {
		return Schedule{}, ErrNotRegistered
	}
	return s, nil
}

func (r *Registry) Contains(descriptor string) bool {
	_, ok := r.schedules[descriptor]
	return ok
}

// Descriptors returns registered descriptors in registration order.
func (r *Registry) Descriptors() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Reset restores the registry to the three defaults. Used between
// independent runs of the acceptance harness.
func (r *Registry) Reset() {
	r.schedules = make(map[string]Schedule, len(defaults))
	r.order = r.order[:0]
	for _, d := range defaults {
		r.schedules[d] = MustParse(d)
		r.order = append(r.order, d)
	}
}
