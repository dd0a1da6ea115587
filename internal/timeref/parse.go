// Package timeref parses TRTH time and date encodings and reconciles them
// into absolute timestamps, resolving day-boundary wraparound between the
// venue clock and the capture clock.
package timeref

import (
	"fmt"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseTimeOfDay parses the fixed "HH:MM:SS.ffff" encoding into a duration
// since local midnight. The four fractional digits are ten-thousandths of a
// second.
func ParseTimeOfDay(s string) (time.Duration, error) {
	if len(s) != 13 || s[2] != ':' || s[5] != ':' || s[8] != '.' {
		return 0, fmt.Errorf("malformed time of day %q", s)
	}
	h, err := atoi2(s[0:2])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	m, err := atoi2(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	sec, err := atoi2(s[6:8])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	var frac int
	for i := 9; i < 13; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("malformed time of day %q", s)
		}
		frac = frac*10 + int(d-'0')
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(frac)*100*time.Microsecond, nil
}

func atoi2(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("bad digits %q", s)
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}

// ParseSimpleDate parses the "DD-MMM-YYYY" date encoding used by the
// Date[G] and Trd/Qte Date columns, e.g. "03-JUL-2014".
func ParseSimpleDate(s string) (time.Time, error) {
	if len(s) != 11 || s[2] != '-' || s[6] != '-' {
		return time.Time{}, fmt.Errorf("malformed date %q", s)
	}
	day, err := atoi2(s[0:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", s, err)
	}
	month, ok := months[strings.ToUpper(s[3:6])]
	if !ok {
		return time.Time{}, fmt.Errorf("malformed date %q: unknown month", s)
	}
	var year int
	for i := 7; i < 11; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return time.Time{}, fmt.Errorf("malformed date %q", s)
		}
		year = year*10 + int(d-'0')
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// TimeCache memoizes ParseTimeOfDay over the distinct strings of one batch.
type TimeCache map[string]time.Duration

// Parse returns the cached duration for s, computing it on first sight.
func (c TimeCache) Parse(s string) (time.Duration, error) {
	if d, ok := c[s]; ok {
		return d, nil
	}
	d, err := ParseTimeOfDay(s)
	if err != nil {
		return 0, err
	}
	c[s] = d
	return d, nil
}

// DateCache memoizes ParseSimpleDate over the distinct strings of one batch.
type DateCache map[string]time.Time

// Parse returns the cached date for s, computing it on first sight.
func (c DateCache) Parse(s string) (time.Time, error) {
	if d, ok := c[s]; ok {
		return d, nil
	}
	d, err := ParseSimpleDate(s)
	if err != nil {
		return time.Time{}, err
	}
	c[s] = d
	return d, nil
}
