package events

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trthcli/internal/calendar"
	"trthcli/pkg/contracts/domain"
)

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// eveningEvent announces after the close on Monday June 2 2014.
func eveningEvent() domain.Event {
	return domain.Event{
		PermNo:   12345,
		RefTime1: time.Date(2014, time.June, 2, 16, 30, 0, 0, time.UTC),
		RefTime2: time.Date(2014, time.June, 2, 16, 45, 0, 0, time.UTC),
		RIC:      "MSFT.O",
		Exchange: "NSQ",
	}
}

func TestAsofIndices(t *testing.T) {
	base := time.Date(2014, time.June, 2, 10, 0, 0, 0, time.UTC)
	at := func(s int) time.Time { return base.Add(time.Duration(s) * time.Second) }

	times := []time.Time{at(10), at(25), at(70)}
	grid := []time.Time{at(0), at(10), at(30), at(60), at(100)}

	t.Run("no tolerance carries forward indefinitely", func(t *testing.T) {
		assert.Equal(t, []int{-1, 0, 1, 1, 2}, asofIndices(times, grid, 0))
	})

	t.Run("tolerance voids stale matches", func(t *testing.T) {
		assert.Equal(t, []int{-1, 0, 1, -1, 2}, asofIndices(times, grid, 30*time.Second))
	})

	t.Run("empty observations", func(t *testing.T) {
		assert.Equal(t, []int{-1, -1, -1, -1, -1}, asofIndices(nil, grid, 0))
	})
}

func TestOpenAnchor(t *testing.T) {
	cal := calendar.New()
	jun2 := mustDate(2014, time.June, 2)

	t.Run("morning announcement references the same open", func(t *testing.T) {
		anchor := time.Date(2014, time.June, 2, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2014, time.June, 2, 9, 30, 0, 0, time.UTC), OpenAnchor(cal, jun2, anchor))
	})

	t.Run("evening announcement references the next open", func(t *testing.T) {
		anchor := time.Date(2014, time.June, 2, 16, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2014, time.June, 3, 9, 30, 0, 0, time.UTC), OpenAnchor(cal, jun2, anchor))
	})

	t.Run("friday evening references monday", func(t *testing.T) {
		jun6 := mustDate(2014, time.June, 6)
		anchor := time.Date(2014, time.June, 6, 17, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2014, time.June, 9, 9, 30, 0, 0, time.UTC), OpenAnchor(cal, jun6, anchor))
	})
}

func quoteAt(date time.Time, tod time.Duration, bid, ask float64) domain.QuoteRecord {
	return domain.QuoteRecord{
		RIC:      "MSFT.O",
		Date:     date,
		Time:     tod,
		BidPrice: bid,
		BidSize:  5,
		AskPrice: ask,
		AskSize:  3,
	}
}

func TestResampleQuotes(t *testing.T) {
	cal := calendar.New()
	ev := eveningEvent()
	jun2 := mustDate(2014, time.June, 2)

	records := []domain.QuoteRecord{
		// Ten minutes before the announcement.
		quoteAt(jun2, 16*time.Hour+20*time.Minute, 10.0, 10.2),
		// One minute after.
		quoteAt(jun2, 16*time.Hour+31*time.Minute, 10.5, 10.7),
		// Outside extended hours; must be ignored.
		quoteAt(jun2, 22*time.Hour, 99.0, 99.0),
	}

	grids := ResampleQuotes(cal, ev, records)

	require.Len(t, grids.AnnouncementSeconds, 601)
	require.Len(t, grids.AnnouncementMinutes, 126)
	require.Len(t, grids.OpenSeconds, 601)
	require.Len(t, grids.OpenMinutes, 126)

	minutes := grids.AnnouncementMinutes
	assert.Equal(t, -5, minutes[0].Offset)
	assert.Equal(t, 120, minutes[len(minutes)-1].Offset)

	// Before the announcement the 16:20 quote is carried forward.
	assert.Equal(t, 10.0, minutes[0].BidPrice)
	// One minute after, the 16:31 quote takes over and persists.
	assert.Equal(t, 10.5, minutes[6].BidPrice)
	assert.Equal(t, 10.5, minutes[len(minutes)-1].BidPrice)
	// The 22:00 quote never appears.
	for _, row := range minutes {
		assert.NotEqual(t, 99.0, row.BidPrice)
	}

	// The open grid is centered on the next morning, after every quote in
	// the sample, so the last quote carries across the whole grid.
	assert.Equal(t, 10.5, grids.OpenMinutes[0].BidPrice)

	key := minutes[0].EventKey
	assert.Equal(t, ev.PermNo, key.PermNo)
	assert.True(t, key.EventDate.Equal(jun2))
}

func TestResampleQuotesBeforeFirstObservationIsNaN(t *testing.T) {
	cal := calendar.New()
	ev := eveningEvent()

	records := []domain.QuoteRecord{
		// Only quote arrives one minute after the announcement.
		quoteAt(mustDate(2014, time.June, 2), 16*time.Hour+31*time.Minute, 10.5, 10.7),
	}

	grids := ResampleQuotes(cal, ev, records)
	minutes := grids.AnnouncementMinutes
	for _, row := range minutes[:6] {
		assert.True(t, math.IsNaN(row.BidPrice), "offset %d", row.Offset)
		assert.True(t, math.IsNaN(row.AskPrice), "offset %d", row.Offset)
	}
	assert.Equal(t, 10.5, minutes[6].BidPrice)
}

func tradeAt(date time.Time, tod time.Duration, price float64, flags domain.TradeFlags) domain.TradeRecord {
	return domain.TradeRecord{
		RIC:    "MSFT.O",
		Date:   date,
		Time:   tod,
		Price:  price,
		Volume: 100,
		Flags:  flags,
	}
}

func TestResampleTrades(t *testing.T) {
	cal := calendar.New()
	ev := eveningEvent()
	jun2 := mustDate(2014, time.June, 2)

	records := []domain.TradeRecord{
		tradeAt(jun2, 16*time.Hour+31*time.Minute, 10.5, domain.TradeFlags{FormT: true}),
		// Excluded execution modes.
		tradeAt(jun2, 16*time.Hour+32*time.Minute, 66.0, domain.TradeFlags{NextDay: true}),
		tradeAt(jun2, 16*time.Hour+33*time.Minute, 66.0, domain.TradeFlags{SoldOutOfSequence: true}),
	}

	rows := ResampleTrades(cal, ev, records)

	// The announcement at 16:30 references the 09:30 open next morning,
	// 1020 minutes later, so the grid runs to 1020+30 minutes.
	require.Len(t, rows, 1056)
	assert.Equal(t, -5, rows[0].MinutesAfter)
	assert.Equal(t, 1050, rows[len(rows)-1].MinutesAfter)
	assert.Equal(t, 30, rows[len(rows)-1].MinutesAfterOpen)
	assert.Equal(t, -1025, rows[0].MinutesAfterOpen)

	// Offset +1 picks up the 16:31 trade; the price goes stale one minute
	// later and the grid returns to NaN.
	assert.Equal(t, 10.5, rows[6].Price)
	assert.True(t, math.IsNaN(rows[8].Price))
	assert.True(t, math.IsNaN(rows[0].Price))

	// Excluded trades never reach the grid.
	for _, row := range rows {
		assert.NotEqual(t, 66.0, row.Price)
	}
}
