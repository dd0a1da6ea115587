package timeref

import "time"

// wrapThreshold is the drift beyond which the two clocks are taken to have
// crossed local midnight in different directions. Ordinary reporting drift
// stays far below it.
const wrapThreshold = 23 * time.Hour

// Reconcile combines a coarse capture date, a reference time-of-day and a
// capture time-of-day into one absolute timestamp, shifted by the venue's
// GMT offset in whole hours.
//
// The capture clock (fallback) belongs to the coarse date; the reference
// clock is the venue's own and may have crossed midnight relative to it.
// When the two differ by more than 23 hours the difference is corrected by
// one day, landing the result on the reference clock's true calendar date.
// Drift beyond a single day is left uncorrected.
func Reconcile(coarseDate time.Time, reference, fallback time.Duration, gmtOffsetHours int) time.Time {
	diff := fallback - reference
	if diff > wrapThreshold {
		diff -= 24 * time.Hour
	} else if diff < -wrapThreshold {
		diff += 24 * time.Hour
	}
	return coarseDate.
		Add(fallback - diff).
		Add(time.Duration(gmtOffsetHours) * time.Hour)
}

// SplitDate splits an absolute timestamp into its midnight date and the
// remaining time-of-day duration.
func SplitDate(ts time.Time) (time.Time, time.Duration) {
	y, m, d := ts.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
	return date, ts.Sub(date)
}
