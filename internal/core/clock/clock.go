// Package clock provides the injected time source for domain services.
// Every "now" and "today" read in the domain goes through a Clock so that
// aging windows and receive dates are computed in the organisation's timezone
// and can be fixed in tests.
package clock

import "time"

// DefaultTimezone is the organisation timezone used when none is configured.
const DefaultTimezone = "Asia/Kolkata"

// Clock returns the current time in a fixed location.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// System returns a wall clock that reports time in loc.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Location() *time.Location { return c.loc }

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock frozen at t, reporting t's location.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time           { return c.t }
func (c fixedClock) Location() *time.Location { return c.t.Location() }

// Today returns midnight of the current day in the clock's location.
func Today(c Clock) time.Time {
	return DateOf(c.Now(), c.Location())
}

// DateOf truncates t to midnight of its calendar day in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// LoadLocation resolves a timezone name, falling back to DefaultTimezone when empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}
