package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	cal := New()

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"ordinary weekday", d(2014, time.July, 2), true},
		{"saturday", d(2014, time.July, 5), false},
		{"sunday", d(2014, time.July, 6), false},
		{"independence day", d(2014, time.July, 4), false},
		{"new years day", d(2014, time.January, 1), false},
		{"mlk day third monday of january", d(2014, time.January, 20), false},
		{"washingtons birthday", d(2014, time.February, 17), false},
		{"memorial day last monday of may", d(2014, time.May, 26), false},
		{"labor day", d(2014, time.September, 1), false},
		{"columbus day", d(2014, time.October, 13), false},
		{"veterans day", d(2014, time.November, 11), false},
		{"thanksgiving", d(2014, time.November, 27), false},
		{"christmas", d(2014, time.December, 25), false},
		{"july fourth observed on friday in 2015", d(2015, time.July, 3), false},
		{"new years 2011 observed on friday dec 31 2010", d(2010, time.December, 31), false},
		{"time of day is ignored", time.Date(2014, time.July, 2, 18, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsBusinessDay(tt.date))
		})
	}
}

func TestAddBusinessDays(t *testing.T) {
	cal := New()

	tests := []struct {
		name     string
		start    time.Time
		n        int
		expected time.Time
	}{
		{"zero is identity at midnight", d(2014, time.July, 2), 0, d(2014, time.July, 2)},
		{"skips weekend and holiday", d(2014, time.July, 3), 1, d(2014, time.July, 7)},
		{"backward over weekend", d(2014, time.July, 7), -1, d(2014, time.July, 3)},
		{"forward two plain days", d(2014, time.June, 2), 2, d(2014, time.June, 4)},
		{"starts from a weekend", d(2014, time.July, 5), 1, d(2014, time.July, 7)},
		{"backward over thanksgiving", d(2014, time.December, 1), -2, d(2014, time.November, 26)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.AddBusinessDays(tt.start, tt.n)
			assert.True(t, got.Equal(tt.expected), "got %v, expected %v", got, tt.expected)
		})
	}
}

func TestDateRange(t *testing.T) {
	dates := DateRange(d(2014, time.July, 3), d(2014, time.July, 6))
	assert.Equal(t, []time.Time{
		d(2014, time.July, 3),
		d(2014, time.July, 4),
		d(2014, time.July, 5),
		d(2014, time.July, 6),
	}, dates)

	single := DateRange(d(2014, time.July, 3), d(2014, time.July, 3))
	assert.Len(t, single, 1)
}

func TestSessionBounds(t *testing.T) {
	open, close := SessionBounds(d(2014, time.June, 2))
	assert.Equal(t, time.Date(2014, time.June, 2, 9, 29, 30, 0, time.UTC), open)
	assert.Equal(t, time.Date(2014, time.June, 2, 16, 0, 30, 0, time.UTC), close)

	open, close = SessionBounds(d(2014, time.July, 3))
	assert.Equal(t, time.Date(2014, time.July, 3, 9, 29, 30, 0, time.UTC), open)
	assert.Equal(t, time.Date(2014, time.July, 3, 13, 0, 30, 0, time.UTC), close)
}

func TestMarketOpen(t *testing.T) {
	assert.Equal(t,
		time.Date(2014, time.June, 2, 9, 30, 0, 0, time.UTC),
		MarketOpen(time.Date(2014, time.June, 2, 15, 45, 0, 0, time.UTC)))
}
