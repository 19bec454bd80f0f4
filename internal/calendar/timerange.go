package calendar

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// DayBounds returns the calendar day containing t, midnight to next
// midnight in loc. Days with a DST shift are 23 or 25 hours long.
func DayBounds(t time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.UTC
	}
	start := dateOnly(t.In(loc))
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// UTC converts both bounds, which is how ranges are compared against stored
// timestamps.
func (tr TimeRange) UTC() TimeRange {
	return TimeRange{Start: tr.Start.UTC(), End: tr.End.UTC()}
}

// Overlaps reports whether two half-open ranges intersect.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// FormatAppointment renders t for people, e.g. "Saturday, 01 Jun 2024, 10:00".
func FormatAppointment(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%s, %s", t.Weekday(), t.Format("02 Jan 2006, 15:04"))
}
