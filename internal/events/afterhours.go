package events

import (
	"fmt"
	"math"
	"sort"
	"time"

	"trthcli/internal/calendar"
	"trthcli/pkg/contracts/domain"
)

// Venue code groups for the after-hours analysis. A trade printed to the
// ADF tape is dark; a trade on the listing group's own venues is primary.
var (
	nasdaqListed  = map[string]bool{"NAQ": true, "NMQ": true, "NSQ": true}
	nyseListed    = map[string]bool{"ASQ": true, "NYQ": true, "PSQ": true}
	nasdaqPrimary = map[string]bool{"NAS": true, "THM": true}
	nysePrimary   = map[string]bool{"PSE": true, "NYS": true, "ASE": true}
)

const darkVenue = "ADF"

// AfterHoursTrades selects the Form-T trades between the announcement and
// the next market open and annotates each with its duration since the
// preceding trade, log return, cumulative return since the announcement,
// and dark/primary venue indicators. The first trade's baseline is the last
// pre-announcement price (NaN log values when there was none).
//
// Events after midday reference that evening's after-hours session; events
// before midday reference the prior evening's. Returns nil when no
// qualifying trade exists. An exchange code outside the known listing
// groups is a hard error.
func AfterHoursTrades(cal *calendar.Calendar, ev domain.Event, records []domain.TradeRecord) ([]domain.AfterHoursTrade, error) {
	primary, ok := primaryVenues(ev.Exchange)
	if !ok {
		return nil, fmt.Errorf("unknown exchange %q", ev.Exchange)
	}

	anchor := ev.RefTime1
	eventDate := ev.Date()
	if timeOfDay(anchor) <= 12*time.Hour {
		eventDate = cal.AddBusinessDays(eventDate, -1)
	}
	openTS := calendar.MarketOpen(cal.AddBusinessDays(eventDate, 1))

	sorted := append([]domain.TradeRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	prevLogPrice := math.NaN()
	for _, r := range sorted {
		if r.Timestamp().Before(anchor) {
			prevLogPrice = math.Log(r.Price)
		}
	}

	var out []domain.AfterHoursTrade
	key := domain.EventKey{
		PermNo:         ev.PermNo,
		EventDate:      ev.Date(),
		EventTimestamp: anchor,
		RIC:            ev.RIC,
		Exchange:       ev.Exchange,
	}
	prevTS := anchor
	cumRet := 0.0
	for _, r := range sorted {
		ts := r.Timestamp()
		if !r.Flags.FormT || !ts.After(anchor) || !ts.Before(openTS) {
			continue
		}
		logPrice := math.Log(r.Price)
		logRet := logPrice - prevLogPrice
		rowCum := math.NaN()
		// A NaN first return (no pre-announcement price) is excluded from
		// the running sum rather than poisoning it.
		if !math.IsNaN(logRet) {
			cumRet += logRet
			rowCum = cumRet
		}
		out = append(out, domain.AfterHoursTrade{
			EventKey:     key,
			TradeID:      len(out) + 1,
			Date:         r.Date,
			Timestamp:    ts,
			ExCntrbID:    r.ExCntrbID,
			Price:        r.Price,
			Volume:       r.Volume,
			Duration:     ts.Sub(prevTS),
			LogPrice:     logPrice,
			PrevLogPrice: prevLogPrice,
			LogRet:       logRet,
			CumRet:       rowCum,
			Sweep:        r.Flags.Sweep,
			OddLot:       r.Flags.OddLot,
			Dark:         r.ExCntrbID == darkVenue,
			Primary:      primary[r.ExCntrbID],
		})
		prevTS = ts
		prevLogPrice = logPrice
	}
	return out, nil
}

// primaryVenues maps a listing exchange code to its primary venue set.
func primaryVenues(exchange string) (map[string]bool, bool) {
	switch {
	case nasdaqListed[exchange]:
		return nasdaqPrimary, true
	case nyseListed[exchange]:
		return nysePrimary, true
	}
	return nil, false
}
