package dataprocessing

import (
	"fmt"
	"math"

	"trthcli/internal/qualifiers"
	"trthcli/internal/timeref"
	"trthcli/pkg/contracts/domain"
)

// ClassifyQuotes classifies one chunk of a raw quote file. Quotes carry a
// single capture date (Date[G]) which stays on the output record; the
// reconciled quote time lands in the time-of-day column, corrected for the
// case where the venue clock and capture clock sit on opposite sides of
// midnight.
//
// An empty chunk yields an empty, schema-valid result.
func ClassifyQuotes(chunk []domain.QuoteTick) ([]domain.QuoteRecord, error) {
	records := make([]domain.QuoteRecord, 0, len(chunk))

	times := make(timeref.TimeCache)
	dates := make(timeref.DateCache)
	classifier := qualifiers.NewQuoteClassifier()

	for i, tick := range chunk {
		reference, fallback, err := referenceTimes(times, tick.QuoteTime, tick.TimeG)
		if err != nil {
			return nil, fmt.Errorf("quote row %d (%s): %w", i, tick.RIC, err)
		}
		coarse, err := dates.Parse(tick.DateG)
		if err != nil {
			return nil, fmt.Errorf("quote row %d (%s): %w", i, tick.RIC, err)
		}

		ts := timeref.Reconcile(coarse, reference, fallback, tick.GMTOffset)
		// The capture date stays; only the time-of-day of the reconciled
		// instant is kept. Quotes that slid across midnight are caught by
		// the extended-hours guard at resampling time.
		_, tod := timeref.SplitDate(ts)

		records = append(records, domain.QuoteRecord{
			RIC:      tick.RIC,
			Date:     coarse,
			Time:     tod,
			BidPrice: tick.BidPrice,
			BidSize:  tick.BidSize,
			AskPrice: tick.AskPrice,
			AskSize:  tick.AskSize,
			Flags:    classifier.Classify(tick.Qualifiers),
		})
	}
	return records, nil
}

// ScrubQuotes nulls out the bid price of degenerate bids (zero size, zero
// price or a NoQuote flag) and likewise the ask price, so crossed or empty
// quotes do not pollute resampling. Sizes are left untouched. Returns the
// input slice, modified in place.
func ScrubQuotes(records []domain.QuoteRecord) []domain.QuoteRecord {
	for i := range records {
		r := &records[i]
		if r.BidSize == 0 || r.BidPrice == 0 || r.Flags.NoQuote {
			r.BidPrice = math.NaN()
		}
		if r.AskSize == 0 || r.AskPrice == 0 || r.Flags.NoQuote {
			r.AskPrice = math.NaN()
		}
	}
	return records
}
