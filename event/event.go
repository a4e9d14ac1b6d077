// Package event builds holiday spans from a calendar and turns them into indicator series
// aligned with a time index.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrStartAfterEnd = errors.New("event start time is after end time")
	ErrUnsetTime     = errors.New("unset event start or end time")
	ErrNoEventName   = errors.New("no event name")
)

// Event represents a time span where the series is expected to behave differently
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// Contains reports whether t falls in [Start, End)
func (e Event) Contains(t time.Time) bool {
	return (t.After(e.Start) || t.Equal(e.Start)) && t.Before(e.End)
}

// Holiday returns one day long events for every observed occurrence of the holiday between
// start and end inclusive, widened by durBefore and durAfter. Occurrences narrowed to an
// invalid span by negative durations are skipped.
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Event {
	startLoc := start.Location()

	events := []Event{}
	for i := start.Year(); i <= end.Year(); i++ {
		_, observed := hol.Calc(i)
		_, offset := observed.Zone()
		_, startOffset := start.Zone()

		observed = observed.Add(time.Duration(offset) * time.Second).In(startLoc).Add(time.Duration(-startOffset) * time.Second)

		if (observed.After(start) || observed.Equal(start)) && (observed.Before(end) || observed.Equal(end)) {
			e := NewEvent(
				strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, i), " ", "_"),
				observed.Add(-durBefore),
				observed.Add(24*time.Hour).Add(durAfter),
			)
			if e.Valid() != nil {
				continue
			}
			events = append(events, e)
		}
	}
	return events
}

// DefaultHolidays are the retail holidays flagged when the raw data carries no holiday
// column
func DefaultHolidays() []*cal.Holiday {
	return []*cal.Holiday{
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}
}

// Calendar flags time points that fall on one of its holidays
type Calendar struct {
	holidays []*cal.Holiday
}

// NewCalendar creates a calendar over the given holidays. If none are provided the
// DefaultHolidays are used.
func NewCalendar(holidays ...*cal.Holiday) *Calendar {
	if len(holidays) == 0 {
		holidays = DefaultHolidays()
	}
	return &Calendar{holidays: holidays}
}

// Events returns every holiday event overlapping the years spanned by t
func (c *Calendar) Events(t []time.Time) []Event {
	if len(t) == 0 {
		return nil
	}
	first, last := t[0], t[len(t)-1]
	loc := first.Location()
	start := time.Date(first.Year(), time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(last.Year(), time.December, 31, 23, 59, 59, 0, loc)

	var events []Event
	for _, hol := range c.holidays {
		events = append(events, Holiday(hol, start, end, 0, 0)...)
	}
	return events
}

// Indicator returns 1.0 for every time point within a holiday and 0.0 otherwise
func (c *Calendar) Indicator(t []time.Time) []float64 {
	res := make([]float64, len(t))
	events := c.Events(t)
	for i, tPnt := range t {
		for _, e := range events {
			if e.Contains(tPnt) {
				res[i] = 1.0
				break
			}
		}
	}
	return res
}
