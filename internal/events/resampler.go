package events

import (
	"math"
	"sort"
	"time"

	"trthcli/internal/calendar"
	"trthcli/internal/dataprocessing"
	"trthcli/pkg/contracts/domain"
)

// Extended trading hours. Records whose reconciled time-of-day falls
// outside them may have been misdated by the day-boundary correction and
// are excluded before resampling.
const (
	extendedHoursStart = 4 * time.Hour
	extendedHoursEnd   = 20 * time.Hour
)

// tradeGridTolerance bounds how stale a carried-forward trade price may be
// on the trade minute grid. Quotes carry forward without bound.
const tradeGridTolerance = time.Minute

// OpenAnchor returns the market-open instant a grid is centered on: 09:30
// on the event date, shifted to the next business day's open when the
// announcement fell after midday (the announcement then references the
// following session).
func OpenAnchor(cal *calendar.Calendar, eventDate time.Time, anchor time.Time) time.Time {
	open := calendar.MarketOpen(eventDate)
	if timeOfDay(anchor) > 12*time.Hour {
		open = calendar.MarketOpen(cal.AddBusinessDays(eventDate, 1))
	}
	return open
}

func timeOfDay(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

// asofIndices performs a backward as-of join of sorted observation times
// onto a regular grid: result[i] is the index of the latest observation at
// or before grid point i, or -1 when none qualifies. A positive tolerance
// voids matches older than the tolerance.
func asofIndices(times []time.Time, grid []time.Time, tolerance time.Duration) []int {
	out := make([]int, len(grid))
	j := -1
	for i, g := range grid {
		for j+1 < len(times) && !times[j+1].After(g) {
			j++
		}
		out[i] = j
		if j >= 0 && tolerance > 0 && g.Sub(times[j]) > tolerance {
			out[i] = -1
		}
	}
	return out
}

// gridTimes materializes the instants anchor+k*step for k in [from, to].
func gridTimes(anchor time.Time, step time.Duration, from, to int) []time.Time {
	out := make([]time.Time, 0, to-from+1)
	for k := from; k <= to; k++ {
		out = append(out, anchor.Add(time.Duration(k)*step))
	}
	return out
}

// QuoteGrids holds the four independent resampled quote series of one
// event.
type QuoteGrids struct {
	AnnouncementSeconds []domain.QuoteGridRow
	AnnouncementMinutes []domain.QuoteGridRow
	OpenSeconds         []domain.QuoteGridRow
	OpenMinutes         []domain.QuoteGridRow
}

// ResampleQuotes scrubs, filters and sorts an event's quote records, then
// populates second grids (-300..+300) and minute grids (-5..+120) around
// the announcement and around the relevant market open. Grid points before
// the first observation stay NaN; later points always carry the most
// recent prior quote forward.
func ResampleQuotes(cal *calendar.Calendar, ev domain.Event, records []domain.QuoteRecord) *QuoteGrids {
	records = dataprocessing.ScrubQuotes(records)

	kept := make([]domain.QuoteRecord, 0, len(records))
	for _, r := range records {
		if r.Time >= extendedHoursStart && r.Time <= extendedHoursEnd {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp().Before(kept[j].Timestamp())
	})
	times := make([]time.Time, len(kept))
	for i, r := range kept {
		times[i] = r.Timestamp()
	}

	anchor := ev.RefTime1
	open := OpenAnchor(cal, ev.Date(), anchor)
	key := domain.EventKey{
		PermNo:         ev.PermNo,
		EventDate:      ev.Date(),
		EventTimestamp: anchor,
		RIC:            ev.RIC,
		Exchange:       ev.Exchange,
	}

	build := func(center time.Time, step time.Duration, from, to int) []domain.QuoteGridRow {
		grid := gridTimes(center, step, from, to)
		idx := asofIndices(times, grid, 0)
		rows := make([]domain.QuoteGridRow, len(grid))
		for i := range grid {
			row := domain.QuoteGridRow{
				EventKey: key,
				Offset:   from + i,
				BidPrice: math.NaN(),
				BidSize:  math.NaN(),
				AskPrice: math.NaN(),
				AskSize:  math.NaN(),
			}
			if j := idx[i]; j >= 0 {
				row.BidPrice = kept[j].BidPrice
				row.BidSize = kept[j].BidSize
				row.AskPrice = kept[j].AskPrice
				row.AskSize = kept[j].AskSize
			}
			rows[i] = row
		}
		return rows
	}

	return &QuoteGrids{
		AnnouncementSeconds: build(anchor, time.Second, -300, 300),
		AnnouncementMinutes: build(anchor, time.Minute, -5, 120),
		OpenSeconds:         build(open, time.Second, -300, 300),
		OpenMinutes:         build(open, time.Minute, -5, 120),
	}
}

// ResampleTrades filters an event's trades down to regular-way executions
// and populates the announcement minute grid, which runs from five minutes
// before the announcement to thirty minutes past the relevant market open.
// A trade price is carried forward for at most one minute; beyond that the
// grid point stays NaN. MinutesAfterOpen re-expresses each offset relative
// to the open.
func ResampleTrades(cal *calendar.Calendar, ev domain.Event, records []domain.TradeRecord) []domain.TradeGridRow {
	const afterOpen = 30

	kept := make([]domain.TradeRecord, 0, len(records))
	for _, r := range records {
		f := r.Flags
		if f.NextDay || f.PriorRefPrice || f.DerivativelyPriced || f.SoldOutOfSequence {
			continue
		}
		if r.RIC == "" {
			continue
		}
		if r.Time < extendedHoursStart || r.Time > extendedHoursEnd {
			continue
		}
		kept = append(kept, r)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp().Before(kept[j].Timestamp())
	})
	times := make([]time.Time, len(kept))
	for i, r := range kept {
		times[i] = r.Timestamp()
	}

	anchor := ev.RefTime1
	open := OpenAnchor(cal, ev.Date(), anchor)
	maxAfter := int(math.Ceil(open.Sub(anchor).Seconds()/60)) + afterOpen

	grid := gridTimes(anchor, time.Minute, -5, maxAfter)
	idx := asofIndices(times, grid, tradeGridTolerance)

	key := domain.EventKey{
		PermNo:         ev.PermNo,
		EventDate:      ev.Date(),
		EventTimestamp: anchor,
		RIC:            ev.RIC,
		Exchange:       ev.Exchange,
	}
	rows := make([]domain.TradeGridRow, len(grid))
	for i := range grid {
		offset := -5 + i
		row := domain.TradeGridRow{
			EventKey:         key,
			MinutesAfter:     offset,
			MinutesAfterOpen: offset - maxAfter + afterOpen,
			Price:            math.NaN(),
		}
		if j := idx[i]; j >= 0 {
			row.Price = kept[j].Price
		}
		rows[i] = row
	}
	return rows
}
