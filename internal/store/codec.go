package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column sets of the daily file schemas. Order is the on-disk column order.
var (
	tradeTickColumns = []string{
		"#RIC", "Date[G]", "Time[G]", "GMT Offset", "Ex/Cntrb.ID", "Price",
		"Volume", "Market VWAP", "Qualifiers", "Seq. No.", "Exch Time",
		"Trd/Qte Date",
	}
	quoteTickColumns = []string{
		"#RIC", "Date[G]", "Time[G]", "GMT Offset", "Buyer ID", "Bid Price",
		"Bid Size", "Seller ID", "Ask Price", "Ask Size", "Qualifiers",
		"Quote Time",
	}
	tradeFlagColumns = []string{
		"FormT", "Opening", "Closing", "Cross", "Sweep", "NextDay", "Bunched",
		"PriorRefPrice", "ExtendedHoursSOoS", "DerivativelyPriced",
		"AverageTradePrice", "CashSale", "SoldOutOfSequence", "OddLot",
	}
	tradeRecordColumns = append([]string{
		"#RIC", "Date", "Time", "Ex/Cntrb.ID", "Price", "Volume",
		"Market VWAP",
	}, tradeFlagColumns...)
	quoteFlagColumns   = []string{"Regular", "Opening", "Closing", "NoQuote"}
	quoteRecordColumns = append([]string{
		"#RIC", "Date", "Time", "Bid Price", "Bid Size", "Ask Price",
		"Ask Size",
	}, quoteFlagColumns...)
)

// formatFloat renders a float CSV field; NaN renders as the empty string.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat parses a float CSV field; the empty string is NaN.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// formatTimeOfDay renders a duration since midnight as "HH:MM:SS.ffff"
// with four fractional digits.
func formatTimeOfDay(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	frac := d / (100 * time.Microsecond)
	return fmt.Sprintf("%02d:%02d:%02d.%04d", h, m, s, frac)
}

// parseTimeOfDay parses "HH:MM:SS" with an optional fractional part of up
// to four digits back into a duration since midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	sec := parts[2]
	frac := time.Duration(0)
	if i := strings.IndexByte(sec, '.'); i >= 0 {
		digits := sec[i+1:]
		sec = sec[:i]
		for len(digits) < 4 {
			digits += "0"
		}
		f, err := strconv.Atoi(digits[:4])
		if err != nil {
			return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
		}
		frac = time.Duration(f) * 100 * time.Microsecond
	}
	ss, err := strconv.Atoi(sec)
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(ss)*time.Second + frac, nil
}

// formatFlag renders a boolean flag column as 0/1.
func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parseFlag parses a 0/1 flag column.
func parseFlag(s string) (bool, error) {
	switch s {
	case "0", "":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("malformed flag %q", s)
}

// columnIndex maps a header row to column positions, verifying that every
// required column is present. Unknown extra columns are tolerated.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}
