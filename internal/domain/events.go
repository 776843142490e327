package domain

import (
	"iter"
	"slices"
	"time"
)

// Event is a single occurrence of a prayer time.
type Event struct {
	Prayer Prayer    `json:"prayer"`
	Time   time.Time `json:"time"`
}

// Events returns the present events of the day sorted by time. Absent
// events are skipped.
func (t Times) Events() []Event {
	events := make([]Event, 0, len(Prayers))
	for _, p := range Prayers {
		if v := t.Get(p); v != nil {
			events = append(events, Event{Prayer: p, Time: *v})
		}
	}
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})
	return events
}

// Present returns the number of events that occur.
func (t Times) Present() int {
	n := 0
	for _, p := range Prayers {
		if t.Get(p) != nil {
			n++
		}
	}
	return n
}

// NextEvent returns the first event strictly after now. The UTC day of now
// and the days either side are searched, so events of the previous day
// that spill past midnight are found too.
func NextEvent(c *Calculator, loc Location, now time.Time) (Event, bool) {
	return NextEventFunc(now, func(d CalendarDate) Times {
		return c.Calculate(loc, d)
	})
}

// NextEventFunc is NextEvent with a caller-supplied source of day
// timetables.
func NextEventFunc(now time.Time, day func(CalendarDate) Times) (Event, bool) {
	today := DateOf(now.UTC())
	var next Event
	found := false
	for _, d := range []CalendarDate{today.Prev(), today, today.Next()} {
		for _, e := range day(d).Events() {
			if e.Time.After(now) && (!found || e.Time.Before(next.Time)) {
				next, found = e, true
			}
		}
	}
	return next, found
}

// Days yields the prayer times of consecutive days starting at from.
// The sequence is unbounded; stop ranging to end it.
func Days(c *Calculator, loc Location, from CalendarDate) iter.Seq2[CalendarDate, Times] {
	return func(yield func(CalendarDate, Times) bool) {
		for d := from; ; d = d.Next() {
			if !yield(d, c.Calculate(loc, d)) {
				return
			}
		}
	}
}

// Upcoming yields every event after now in chronological order, day by
// day, starting with the previous UTC day.
func Upcoming(c *Calculator, loc Location, now time.Time) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, times := range Days(c, loc, DateOf(now.UTC()).Prev()) {
			for _, e := range times.Events() {
				if !e.Time.After(now) {
					continue
				}
				if !yield(e) {
					return
				}
			}
		}
	}
}
