package shared

import "time"

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the calendar date of the clock
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// AsOfOrToday returns the calendar date of asOf, or today's date when asOf is nil
func AsOfOrToday(c Clock, asOf *time.Time) time.Time {
	if asOf != nil {
		return DateOf(*asOf)
	}
	if c == nil {
		c = SystemClock{}
	}
	return Today(c)
}
