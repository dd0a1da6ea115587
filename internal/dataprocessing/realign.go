package dataprocessing

import (
	"time"

	"trthcli/pkg/contracts/domain"
)

// RealignDay builds the corrected daily batch for one local trading date.
//
// Raw daily files are cut on capture-day boundaries, so after-hours trades
// reported late can land in the following day's file. Given the target
// date's classified batch and the following capture day's batch, RealignDay
// keeps the rows of each whose reconciled local date equals the target
// date, preserving file order (current day first). For the last date in the
// sample pass nil as next.
func RealignDay(date time.Time, current, next []domain.TradeRecord) []domain.TradeRecord {
	out := make([]domain.TradeRecord, 0, len(current))
	for _, r := range current {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	for _, r := range next {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out
}
