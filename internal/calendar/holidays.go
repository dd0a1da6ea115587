package calendar

import "time"

// nthWeekday returns the date of the n-th given weekday of the month
// (n starts at 1).
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the date of the last given weekday of the month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// observed shifts a fixed-date holiday that falls on a weekend to the
// nearest weekday (Saturday to Friday, Sunday to Monday).
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// federalHolidays returns the US federal holidays for one year.
func federalHolidays(year int) []time.Time {
	fixed := func(month time.Month, day int) time.Time {
		return observed(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	}
	return []time.Time{
		fixed(time.January, 1),                                // New Year's Day
		nthWeekday(year, time.January, time.Monday, 3),        // Martin Luther King Jr. Day
		nthWeekday(year, time.February, time.Monday, 3),       // Washington's Birthday
		lastWeekday(year, time.May, time.Monday),              // Memorial Day
		fixed(time.July, 4),                                   // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),      // Labor Day
		nthWeekday(year, time.October, time.Monday, 2),        // Columbus Day
		fixed(time.November, 11),                              // Veterans Day
		nthWeekday(year, time.November, time.Thursday, 4),     // Thanksgiving
		fixed(time.December, 25),                              // Christmas Day
	}
}
