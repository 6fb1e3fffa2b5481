package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(ts))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same day different hours", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), 0},
		{"late evening to early morning counts one day", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), 1},
		{"across leap day", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
		{"negative", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestDaysUntilDate(t *testing.T) {
	buenosAires := time.FixedZone("ART", -3*3600)
	karachi := time.FixedZone("PKT", 5*3600)
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	// 22:30 on the 15th in Buenos Aires is already the 16th in UTC
	assert.Equal(t, -1, DaysUntilDate(time.Date(2024, 6, 15, 22, 30, 0, 0, buenosAires), date))
	// 00:30 on the 16th in Karachi is still the 15th in UTC
	assert.Equal(t, 0, DaysUntilDate(time.Date(2024, 6, 16, 0, 30, 0, 0, karachi), date))
	assert.Equal(t, 3, DaysUntilDate(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC), date))
}

func TestAsOfOrToday(t *testing.T) {
	clock := FixedClock{At: time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)}

	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), AsOfOrToday(clock, nil))

	asOf := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), AsOfOrToday(clock, &asOf))
}
