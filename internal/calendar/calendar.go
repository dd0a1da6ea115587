// Package calendar provides US business-day arithmetic and trading session
// bounds for the sample period. Business days exclude weekends and US
// federal holidays.
package calendar

import (
	"sync"
	"time"
)

// Calendar answers business-day queries against the US federal holiday
// schedule. The zero value is not usable; construct with New.
type Calendar struct {
	mu       sync.Mutex
	holidays map[int]map[time.Time]bool
}

// New creates a Calendar with an empty holiday cache.
func New() *Calendar {
	return &Calendar{holidays: make(map[int]map[time.Time]bool)}
}

// midnight truncates a timestamp to its calendar date in UTC.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) holidaySet(year int) map[time.Time]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.holidays[year]
	if !ok {
		set = make(map[time.Time]bool)
		// An observed New Year's Day can land in the prior December, so
		// adjacent years are scanned too.
		for y := year - 1; y <= year+1; y++ {
			for _, h := range federalHolidays(y) {
				if h.Year() == year {
					set[h] = true
				}
			}
		}
		c.holidays[year] = set
	}
	return set
}

// IsBusinessDay reports whether the date is a weekday that is not a US
// federal holiday. The time-of-day portion of t is ignored.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	d := midnight(t)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidaySet(d.Year())[d]
}

// AddBusinessDays returns the date n business days from t (n may be
// negative). The result is at midnight UTC.
func (c *Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	d := midnight(t)
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, step)
		for !c.IsBusinessDay(d) {
			d = d.AddDate(0, 0, step)
		}
	}
	return d
}

// DateRange enumerates every calendar date in [start, end] inclusive.
func DateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := midnight(start); !d.After(midnight(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
