package events

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trthcli/internal/calendar"
	"trthcli/internal/store"
	"trthcli/pkg/contracts/domain"
)

func testLayout(t *testing.T) store.Layout {
	t.Helper()
	root := t.TempDir()
	return store.Layout{
		RawDir:         filepath.Join(root, "raw"),
		TradesDir:      filepath.Join(root, "trades"),
		QuotesDir:      filepath.Join(root, "quotes"),
		ParsedDir:      filepath.Join(root, "parsed"),
		FinalDir:       filepath.Join(root, "final"),
		ErrorsDir:      filepath.Join(root, "errors"),
		TradeEventsDir: filepath.Join(root, "trade_events"),
		QuoteEventsDir: filepath.Join(root, "quote_events"),
		ResampledDir:   filepath.Join(root, "resampled"),
	}
}

func TestTradeWindow(t *testing.T) {
	layout := testLayout(t)
	cal := calendar.New()
	ev := eveningEvent()
	jun2 := mustDate(2014, time.June, 2)
	jun3 := mustDate(2014, time.June, 3)

	require.NoError(t, store.WriteTradeRecords(layout.FinalTradesFile("NSQ", jun2), []domain.TradeRecord{
		tradeAt(jun2, 10*time.Hour, 10.0, domain.TradeFlags{}),
		{RIC: "AAPL.O", Date: jun2, Time: 11 * time.Hour, Price: 90, Volume: 10},
	}))
	require.NoError(t, store.WriteTradeRecords(layout.FinalTradesFile("NSQ", jun3), []domain.TradeRecord{
		tradeAt(jun3, 9*time.Hour+45*time.Minute, 10.4, domain.TradeFlags{}),
	}))

	e := NewExtractor(layout, cal, 1000, nil)
	records, found, err := e.TradeWindow(ev)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, records, 2, "other symbols are filtered out")
	assert.Equal(t, 10.0, records[0].Price)
	assert.Equal(t, 10.4, records[1].Price)
}

func TestTradeWindowMissingEverywhere(t *testing.T) {
	e := NewExtractor(testLayout(t), calendar.New(), 1000, nil)
	records, found, err := e.TradeWindow(eveningEvent())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, records)
}

func TestQuoteWindowClassifiesOnTheFly(t *testing.T) {
	layout := testLayout(t)
	cal := calendar.New()
	ev := eveningEvent()
	jun2 := mustDate(2014, time.June, 2)

	w, err := store.NewQuoteTickWriter(layout.QuotesFile("NSQ", jun2))
	require.NoError(t, err)
	require.NoError(t, w.WriteAll([]domain.QuoteTick{
		{
			RIC:        "MSFT.O",
			DateG:      "02-JUN-2014",
			TimeG:      "10:15:00.5000",
			BidPrice:   10.4,
			BidSize:    5,
			AskPrice:   10.6,
			AskSize:    3,
			Qualifiers: "R [PRC_QL_CD]",
			QuoteTime:  "10:15:00.0000",
		},
		{
			RIC:       "AAPL.O",
			DateG:     "02-JUN-2014",
			TimeG:     "10:16:00.0000",
			BidPrice:  90,
			BidSize:   1,
			AskPrice:  91,
			AskSize:   1,
			QuoteTime: "10:16:00.0000",
		},
	}))
	require.NoError(t, w.Close())

	e := NewExtractor(layout, cal, 1000, nil)
	records, found, err := e.QuoteWindow(ev)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, records, 1)
	assert.Equal(t, 10*time.Hour+15*time.Minute, records[0].Time)
	assert.True(t, records[0].Flags.Regular)
}
