package dataprocessing

import (
	"fmt"
	"time"

	"trthcli/internal/calendar"
	"trthcli/internal/qualifiers"
	"trthcli/internal/timeref"
	"trthcli/pkg/contracts/domain"
)

// ClassifiedTrades is the result of classifying one chunk of a daily trade
// file. Late and Early are the anomaly side tables: out-of-hours trades not
// explained by their qualifier flags. They remain part of Records.
type ClassifiedTrades struct {
	Records []domain.TradeRecord
	Late    []domain.TradeRecord
	Early   []domain.TradeRecord
}

// ClassifyTrades classifies one chunk of the raw trade file for one
// exchange on one capture date. Rows without volume are dropped. The
// remaining rows get a reconciled absolute timestamp and qualifier flags;
// trades outside the session bounds of captureDate that no flag explains
// are surfaced in the Late and Early side tables.
//
// The venue clock (Exch Time) and venue date (Trd/Qte Date) take
// precedence; the capture clock and date (Time[G], Date[G]) are the
// fallback. An empty chunk yields an empty, schema-valid result.
func ClassifyTrades(captureDate time.Time, chunk []domain.TradeTick) (*ClassifiedTrades, error) {
	out := &ClassifiedTrades{Records: make([]domain.TradeRecord, 0, len(chunk))}

	times := make(timeref.TimeCache)
	dates := make(timeref.DateCache)
	classifier := qualifiers.NewTradeClassifier()

	open, close := calendar.SessionBounds(captureDate)

	for i, tick := range chunk {
		if !tick.HasVolume() {
			continue
		}

		reference, fallback, err := referenceTimes(times, tick.ExchTime, tick.TimeG)
		if err != nil {
			return nil, fmt.Errorf("trade row %d (%s): %w", i, tick.RIC, err)
		}

		rawDate := tick.TrdQteDate
		if rawDate == "" {
			rawDate = tick.DateG
		}
		coarse, err := dates.Parse(rawDate)
		if err != nil {
			return nil, fmt.Errorf("trade row %d (%s): %w", i, tick.RIC, err)
		}

		ts := timeref.Reconcile(coarse, reference, fallback, tick.GMTOffset)
		date, tod := timeref.SplitDate(ts)

		rec := domain.TradeRecord{
			RIC:        tick.RIC,
			Date:       date,
			Time:       tod,
			ExCntrbID:  tick.ExCntrbID,
			Price:      tick.Price,
			Volume:     tick.Volume,
			MarketVWAP: tick.MarketVWAP,
			Flags:      classifier.Classify(tick.Qualifiers),
		}
		out.Records = append(out.Records, rec)

		if ts.After(close) && !rec.Flags.FormT && !rec.Flags.Closing && !rec.Flags.NextDay {
			out.Late = append(out.Late, rec)
		}
		if ts.Before(open) && !rec.Flags.FormT && !rec.Flags.Opening {
			out.Early = append(out.Early, rec)
		}
	}
	return out, nil
}

// referenceTimes parses the primary and fallback time-of-day fields,
// substituting one for the other when absent. Both absent is a structural
// violation of the input contract.
func referenceTimes(cache timeref.TimeCache, primary, fallback string) (time.Duration, time.Duration, error) {
	if primary == "" && fallback == "" {
		return 0, 0, fmt.Errorf("no time-of-day field present")
	}
	if primary == "" {
		primary = fallback
	} else if fallback == "" {
		fallback = primary
	}
	ref, err := cache.Parse(primary)
	if err != nil {
		return 0, 0, err
	}
	fb, err := cache.Parse(fallback)
	if err != nil {
		return 0, 0, err
	}
	return ref, fb, nil
}
