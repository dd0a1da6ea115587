// Package events extracts classified records around earnings announcements
// and resamples them onto regular event-time grids.
package events

import (
	"fmt"
	"log/slog"
	"time"

	"trthcli/internal/calendar"
	"trthcli/internal/dataprocessing"
	"trthcli/internal/store"
	"trthcli/pkg/contracts/domain"
)

// Extractor builds per-event record sets by scanning the daily file tree
// over each event's business-day window.
type Extractor struct {
	layout    store.Layout
	cal       *calendar.Calendar
	chunkSize int
	logger    *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to the
// default.
func NewExtractor(layout store.Layout, cal *calendar.Calendar, chunkSize int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{layout: layout, cal: cal, chunkSize: chunkSize, logger: logger}
}

// window returns the inclusive calendar-date span to scan for an event:
// one business day before the earlier reference timestamp through
// `after` business days past the later one.
func (e *Extractor) window(ev domain.Event, after int) []time.Time {
	lo, hi := ev.RefTime1, ev.RefTime2
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	start := e.cal.AddBusinessDays(lo, -1)
	end := e.cal.AddBusinessDays(hi, after)
	return calendar.DateRange(start, end)
}

// TradeWindow concatenates the event symbol's classified trades across the
// scan window (one business day past the later reference). The second
// return is false when no daily file existed anywhere in the window; the
// event is then missing rather than empty.
func (e *Extractor) TradeWindow(ev domain.Event) ([]domain.TradeRecord, bool, error) {
	var records []domain.TradeRecord
	found := false
	for _, date := range e.window(ev, 1) {
		path := e.layout.FinalTradesFile(ev.Exchange, date)
		err := store.ReadTradeRecords(path, e.chunkSize, func(chunk []domain.TradeRecord) error {
			for _, r := range chunk {
				if r.RIC == ev.RIC {
					records = append(records, r)
				}
			}
			return nil
		})
		if store.IsNotExist(err) {
			e.logger.Debug("no daily trade file",
				slog.String("exchange", ev.Exchange),
				slog.String("date", date.Format("2006-01-02")))
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("event %d: %w", ev.PermNo, err)
		}
		found = true
	}
	return records, found, nil
}

// QuoteWindow concatenates the event symbol's quotes across the scan
// window (two business days past the later reference), classifying raw
// chunks on the fly. Same missing semantics as TradeWindow.
func (e *Extractor) QuoteWindow(ev domain.Event) ([]domain.QuoteRecord, bool, error) {
	var records []domain.QuoteRecord
	found := false
	for _, date := range e.window(ev, 2) {
		path := e.layout.QuotesFile(ev.Exchange, date)
		err := store.ReadQuoteTicks(path, e.chunkSize, func(chunk []domain.QuoteTick) error {
			ticks := chunk[:0:0]
			for _, t := range chunk {
				if t.RIC == ev.RIC {
					ticks = append(ticks, t)
				}
			}
			classified, err := dataprocessing.ClassifyQuotes(ticks)
			if err != nil {
				return err
			}
			records = append(records, classified...)
			return nil
		})
		if store.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("event %d: %w", ev.PermNo, err)
		}
		found = true
	}
	return records, found, nil
}
