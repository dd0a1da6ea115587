package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trthcli/pkg/contracts/domain"
)

func quoteTick(quoteTime, timeG, qualifiers string) domain.QuoteTick {
	return domain.QuoteTick{
		RIC:        "MSFT.O",
		DateG:      "02-JUN-2014",
		TimeG:      timeG,
		BidPrice:   10.4,
		BidSize:    5,
		AskPrice:   10.6,
		AskSize:    3,
		Qualifiers: qualifiers,
		QuoteTime:  quoteTime,
	}
}

func TestClassifyQuotes(t *testing.T) {
	t.Run("capture date stays on the record", func(t *testing.T) {
		// The venue clock crossed midnight ahead of capture. The
		// reconciled time-of-day moves but Date[G] is kept as-is.
		records, err := ClassifyQuotes([]domain.QuoteTick{
			quoteTick("00:00:01.0000", "23:59:59.0000", "R [PRC_QL_CD]"),
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Date.Equal(captureDate(2014, time.June, 2)))
		assert.Equal(t, time.Duration(1)*time.Second, records[0].Time)
		assert.True(t, records[0].Flags.Regular)
	})

	t.Run("ordinary quote keeps venue time", func(t *testing.T) {
		records, err := ClassifyQuotes([]domain.QuoteTick{
			quoteTick("10:15:00.0000", "10:15:00.5000", ""),
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 10*time.Hour+15*time.Minute, records[0].Time)
	})

	t.Run("missing quote time falls back to capture time", func(t *testing.T) {
		records, err := ClassifyQuotes([]domain.QuoteTick{
			quoteTick("", "10:15:00.0000", ""),
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 10*time.Hour+15*time.Minute, records[0].Time)
	})

	t.Run("empty chunk", func(t *testing.T) {
		records, err := ClassifyQuotes(nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestScrubQuotes(t *testing.T) {
	rec := func(bidPrice, bidSize, askPrice, askSize float64, flags domain.QuoteFlags) domain.QuoteRecord {
		return domain.QuoteRecord{
			RIC:      "MSFT.O",
			BidPrice: bidPrice,
			BidSize:  bidSize,
			AskPrice: askPrice,
			AskSize:  askSize,
			Flags:    flags,
		}
	}

	tests := []struct {
		name   string
		in     domain.QuoteRecord
		bidNaN bool
		askNaN bool
	}{
		{"healthy quote untouched", rec(10.4, 5, 10.6, 3, domain.QuoteFlags{}), false, false},
		{"zero bid size nulls bid", rec(10.4, 0, 10.6, 3, domain.QuoteFlags{}), true, false},
		{"zero ask price nulls ask", rec(10.4, 5, 0, 3, domain.QuoteFlags{}), false, true},
		{"no-quote flag nulls both", rec(10.4, 5, 10.6, 3, domain.QuoteFlags{NoQuote: true}), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ScrubQuotes([]domain.QuoteRecord{tt.in})
			require.Len(t, out, 1)
			assert.Equal(t, tt.bidNaN, math.IsNaN(out[0].BidPrice))
			assert.Equal(t, tt.askNaN, math.IsNaN(out[0].AskPrice))
			// Sizes always survive the scrub.
			assert.Equal(t, tt.in.BidSize, out[0].BidSize)
			assert.Equal(t, tt.in.AskSize, out[0].AskSize)
		})
	}
}
