package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/bookmyappointment/booking-api/internal/httperr"
)

// Interval is a half-open [Start, End) time-of-day range in minutes since
// midnight. Equal boundaries (one interval ending where the next starts)
// do not overlap.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParseClock converts an "HH:mm" string to minutes since midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_date_or_time")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:mm".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseInterval builds an interval from "HH:mm" boundaries. The end must be
// strictly after the start.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

// Clip intersects i with the window. The second return is false when the
// intersection is empty, which is how a break wholly outside working hours
// loses its exclusion effect.
func (i Interval) Clip(window Interval) (Interval, bool) {
	out := Interval{Start: i.Start, End: i.End}
	if out.Start < window.Start {
		out.Start = window.Start
	}
	if out.End > window.End {
		out.End = window.End
	}
	if out.End <= out.Start {
		return Interval{}, false
	}
	return out, true
}

func overlapsAny(list []Interval, iv Interval) bool {
	for _, b := range list {
		if b.Overlaps(iv) {
			return true
		}
	}
	return false
}

// AddBreak appends a break to a day's break list, rejecting any overlap with
// an existing break and keeping the list sorted by start.
func AddBreak(existing []Interval, brk Interval) ([]Interval, error) {
	if overlapsAny(existing, brk) {
		return nil, httperr.ErrBusiness("break_overlap")
	}
	out := append(append([]Interval(nil), existing...), brk)
	sort.Slice(out, func(a, b int) bool { return out[a].Start < out[b].Start })
	return out, nil
}

// WeekdayOf maps a YYYY-MM-DD date to its weekday name (Monday..Sunday).
func WeekdayOf(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_date_or_time")
	}
	return d.Weekday().String(), nil
}
