package shared

import "time"

// DateOf truncates t to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Time-of-day and DST shifts are ignored.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// DaysUntilDate returns the calendar days from now to the calendar date d.
// now is read in d's location so both sides agree on what day it is.
func DaysUntilDate(now, d time.Time) int {
	return DaysBetween(now.In(d.Location()), d)
}

// AddDays shifts a calendar date by n days
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}
