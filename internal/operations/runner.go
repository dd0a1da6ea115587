package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trthcli/internal/calendar"
	"trthcli/internal/config"
	"trthcli/internal/dataprocessing"
	"trthcli/internal/events"
	"trthcli/internal/infrastructure"
	"trthcli/internal/store"
	"trthcli/pkg/contracts/domain"
)

// Runner executes pipeline stages over a bounded worker pool.
type Runner struct {
	layout  store.Layout
	cal     *calendar.Calendar
	workers int
	chunk   int
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewRunner creates a Runner from loaded configuration. A nil logger
// falls back to the default; a nil metrics gets a fresh registry.
func NewRunner(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NewMetrics()
	}
	return &Runner{
		layout:  cfg.Paths,
		cal:     calendar.New(),
		workers: cfg.Processing.Workers,
		chunk:   cfg.Processing.ChunkSize,
		logger:  logger,
		metrics: metrics,
	}
}

// newRun tags the context with a fresh run ID and logs the batch start.
func (r *Runner) newRun(ctx context.Context, stage string, size int) (context.Context, *slog.Logger) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	logger := r.logger.With(slog.String("run_id", runID), slog.String("stage", stage))
	logger.InfoContext(ctx, "batch started", slog.Int("tasks", size))
	return ctx, logger
}

// SplitMonths splits each raw exchange-month of Time-and-Sales capture
// files into daily trade and quote files. quoteRICs, when non-nil,
// restricts which symbols' quotes are kept.
func (r *Runner) SplitMonths(ctx context.Context, exch string, year int, months []time.Month, quoteRICs map[string]bool) error {
	ctx, logger := r.newRun(ctx, "split", len(months))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, month := range months {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			splitter := store.NewSplitter(r.layout, r.chunk, logger)
			splitter.QuoteRICs = quoteRICs
			if err := splitter.SplitMonth(exch, year, month); err != nil {
				return fmt.Errorf("split %s %d-%02d: %w", exch, year, month, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "batch finished")
	return nil
}

// ProcessDays classifies each capture day's trades and then realigns
// every day onto its true local date. dates must be sorted ascending;
// the realignment of a date pulls early-morning spillover from the next
// capture day in the slice.
func (r *Runner) ProcessDays(ctx context.Context, exch string, dates []time.Time) error {
	ctx, logger := r.newRun(ctx, "process", len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, date := range dates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.classifyDay(gctx, logger, exch, date)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Realignment reads only parsed files, so it can fan out too once
	// every day of the batch is classified.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, date := range dates {
		var next time.Time
		if i+1 < len(dates) {
			next = dates[i+1]
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.realignDay(gctx, logger, exch, date, next)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "batch finished")
	return nil
}

// classifyDay streams one capture day's raw trades through
// classification, writing the parsed file and the anomaly side tables.
func (r *Runner) classifyDay(ctx context.Context, logger *slog.Logger, exch string, date time.Time) error {
	raw := r.layout.TradesFile(exch, date)
	if _, err := os.Stat(raw); err != nil {
		if os.IsNotExist(err) {
			r.metrics.DaysProcessed.WithLabelValues("missing").Inc()
			logger.WarnContext(ctx, "no raw trade file for day",
				slog.String("exchange", exch),
				slog.Time("date", date))
			return nil
		}
		return fmt.Errorf("stat %s: %w", raw, err)
	}

	w, err := store.NewTradeRecordWriter(r.layout.ParsedTradesFile(exch, date))
	if err != nil {
		return err
	}
	defer w.Close()

	var late, early []domain.TradeRecord
	err = store.ReadTradeTicks(raw, r.chunk, func(chunk []domain.TradeTick) error {
		res, err := dataprocessing.ClassifyTrades(date, chunk)
		if err != nil {
			return err
		}
		if err := w.WriteAll(res.Records); err != nil {
			return err
		}
		r.metrics.TradesClassified.Add(float64(len(res.Records)))
		late = append(late, res.Late...)
		early = append(early, res.Early...)
		return nil
	})
	if err != nil {
		r.metrics.DaysProcessed.WithLabelValues("error").Inc()
		return fmt.Errorf("classify %s %s: %w", exch, date.Format("2006-01-02"), err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	if len(late) > 0 {
		if err := store.WriteTradeRecords(r.layout.LateTradesFile(exch, date), late); err != nil {
			return err
		}
		r.metrics.AnomalousTrades.WithLabelValues("late").Add(float64(len(late)))
	}
	if len(early) > 0 {
		if err := store.WriteTradeRecords(r.layout.EarlyTradesFile(exch, date), early); err != nil {
			return err
		}
		r.metrics.AnomalousTrades.WithLabelValues("early").Add(float64(len(early)))
	}

	r.metrics.DaysProcessed.WithLabelValues("ok").Inc()
	logger.DebugContext(ctx, "day classified",
		slog.String("exchange", exch),
		slog.Time("date", date),
		slog.Int("late", len(late)),
		slog.Int("early", len(early)))
	return nil
}

// realignDay rebuilds one local trading date from its own parsed file
// plus the next capture day's spillover. next may be the zero time for
// the last date of the batch.
func (r *Runner) realignDay(ctx context.Context, logger *slog.Logger, exch string, date, next time.Time) error {
	current, err := r.readParsed(exch, date)
	if err != nil {
		return err
	}
	if current == nil {
		// Day was missing upstream; nothing to realign.
		return nil
	}

	var spill []domain.TradeRecord
	if !next.IsZero() {
		spill, err = r.readParsed(exch, next)
		if err != nil {
			return err
		}
	}

	final := dataprocessing.RealignDay(date, current, spill)
	if err := store.WriteTradeRecords(r.layout.FinalTradesFile(exch, date), final); err != nil {
		return err
	}

	logger.DebugContext(ctx, "day realigned",
		slog.String("exchange", exch),
		slog.Time("date", date),
		slog.Int("kept", len(final)),
		slog.Int("dropped", len(current)+len(spill)-len(final)))
	return nil
}

// readParsed loads one parsed daily file whole. A missing file returns a
// nil slice and no error.
func (r *Runner) readParsed(exch string, date time.Time) ([]domain.TradeRecord, error) {
	var records []domain.TradeRecord
	err := store.ReadTradeRecords(r.layout.ParsedTradesFile(exch, date), r.chunk, func(chunk []domain.TradeRecord) error {
		records = append(records, chunk...)
		return nil
	})
	if err != nil {
		if store.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if records == nil {
		records = []domain.TradeRecord{}
	}
	return records, nil
}

// Miss records an event the extractor could not find any data for.
type Miss struct {
	Event domain.Event
	Kind  domain.TickType
}

// ExtractEvents writes one trade extract and one quote extract per
// event. Events with no daily files anywhere in their window are
// reported in the returned slice rather than failing the batch.
func (r *Runner) ExtractEvents(ctx context.Context, evs []domain.Event) ([]Miss, error) {
	ctx, logger := r.newRun(ctx, "extract", len(evs))

	extractor := events.NewExtractor(r.layout, r.cal, r.chunk, logger)

	var mu sync.Mutex
	var missing []Miss

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, ev := range evs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			trades, found, err := extractor.TradeWindow(ev)
			if err != nil {
				return fmt.Errorf("extract trades permno %d: %w", ev.PermNo, err)
			}
			if found {
				path := r.layout.TradeEventFile(ev.Exchange, ev.Date(), ev.PermNo)
				if err := store.WriteTradeRecords(path, trades); err != nil {
					return err
				}
			} else {
				r.metrics.EventsMissingData.Inc()
				mu.Lock()
				missing = append(missing, Miss{Event: ev, Kind: domain.TickTypeTrade})
				mu.Unlock()
			}

			quotes, found, err := extractor.QuoteWindow(ev)
			if err != nil {
				return fmt.Errorf("extract quotes permno %d: %w", ev.PermNo, err)
			}
			if found {
				r.metrics.QuotesClassified.Add(float64(len(quotes)))
				path := r.layout.QuoteEventFile(ev.Exchange, ev.Date(), ev.PermNo)
				if err := store.WriteQuoteRecords(path, quotes); err != nil {
					return err
				}
			} else {
				r.metrics.EventsMissingData.Inc()
				mu.Lock()
				missing = append(missing, Miss{Event: ev, Kind: domain.TickTypeQuote})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "batch finished", slog.Int("missing", len(missing)))
	return missing, nil
}

// eventOutputs holds one event's resampled series before aggregation.
type eventOutputs struct {
	quotes   *events.QuoteGrids
	trades   []domain.TradeGridRow
	afterHrs []domain.AfterHoursTrade
	stats    []domain.EventStats
}

// ResampleEvents resamples every event's extracts onto the grids and
// appends all events into the aggregate output files. Events whose
// extract files are missing are skipped.
func (r *Runner) ResampleEvents(ctx context.Context, evs []domain.Event) error {
	ctx, logger := r.newRun(ctx, "resample", len(evs))

	results := make([]eventOutputs, len(evs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, ev := range evs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.resampleEvent(gctx, logger, ev)
			if err != nil {
				return fmt.Errorf("resample permno %d: %w", ev.PermNo, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var agg eventOutputs
	agg.quotes = &events.QuoteGrids{}
	for _, out := range results {
		if out.quotes != nil {
			agg.quotes.AnnouncementSeconds = append(agg.quotes.AnnouncementSeconds, out.quotes.AnnouncementSeconds...)
			agg.quotes.AnnouncementMinutes = append(agg.quotes.AnnouncementMinutes, out.quotes.AnnouncementMinutes...)
			agg.quotes.OpenSeconds = append(agg.quotes.OpenSeconds, out.quotes.OpenSeconds...)
			agg.quotes.OpenMinutes = append(agg.quotes.OpenMinutes, out.quotes.OpenMinutes...)
		}
		agg.trades = append(agg.trades, out.trades...)
		agg.afterHrs = append(agg.afterHrs, out.afterHrs...)
		agg.stats = append(agg.stats, out.stats...)
	}

	writes := []struct {
		path string
		fn   func() error
	}{
		{r.layout.QuoteGridFile("Announcement", "Seconds"), func() error {
			return store.WriteQuoteGrids(r.layout.QuoteGridFile("Announcement", "Seconds"), "Seconds", agg.quotes.AnnouncementSeconds)
		}},
		{r.layout.QuoteGridFile("Announcement", "Minutes"), func() error {
			return store.WriteQuoteGrids(r.layout.QuoteGridFile("Announcement", "Minutes"), "Minutes", agg.quotes.AnnouncementMinutes)
		}},
		{r.layout.QuoteGridFile("Open", "Seconds"), func() error {
			return store.WriteQuoteGrids(r.layout.QuoteGridFile("Open", "Seconds"), "Seconds", agg.quotes.OpenSeconds)
		}},
		{r.layout.QuoteGridFile("Open", "Minutes"), func() error {
			return store.WriteQuoteGrids(r.layout.QuoteGridFile("Open", "Minutes"), "Minutes", agg.quotes.OpenMinutes)
		}},
		{r.layout.TradeGridFile(), func() error {
			return store.WriteTradeGrids(r.layout.TradeGridFile(), agg.trades)
		}},
		{r.layout.AfterHoursFile(), func() error {
			return store.WriteAfterHoursTrades(r.layout.AfterHoursFile(), agg.afterHrs)
		}},
		{r.layout.EventStatsFile(), func() error {
			return store.WriteEventStats(r.layout.EventStatsFile(), events.VolumeBinLabels(), events.ValueBinLabels(), agg.stats)
		}},
	}
	for _, w := range writes {
		if err := w.fn(); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
	}

	logger.InfoContext(ctx, "batch finished")
	return nil
}

// resampleEvent loads one event's extracts and runs every analysis that
// has input data.
func (r *Runner) resampleEvent(ctx context.Context, logger *slog.Logger, ev domain.Event) (eventOutputs, error) {
	var out eventOutputs

	quotes, ok, err := r.readQuoteEvent(ev)
	if err != nil {
		return out, err
	}
	if ok {
		out.quotes = events.ResampleQuotes(r.cal, ev, quotes)
	}

	trades, ok, err := r.readTradeEvent(ev)
	if err != nil {
		return out, err
	}
	if ok {
		out.trades = events.ResampleTrades(r.cal, ev, trades)
		out.afterHrs, err = events.AfterHoursTrades(r.cal, ev, trades)
		if err != nil {
			return out, err
		}
		out.stats = events.DescriptiveStats(r.cal, ev, trades)
	}

	if !ok && out.quotes == nil {
		r.metrics.EventsMissingData.Inc()
		logger.DebugContext(ctx, "no extracts for event",
			slog.Int64("permno", ev.PermNo),
			slog.Time("date", ev.Date()))
		return out, nil
	}

	r.metrics.EventsResampled.Inc()
	return out, nil
}

func (r *Runner) readTradeEvent(ev domain.Event) ([]domain.TradeRecord, bool, error) {
	var records []domain.TradeRecord
	path := r.layout.TradeEventFile(ev.Exchange, ev.Date(), ev.PermNo)
	err := store.ReadTradeRecords(path, r.chunk, func(chunk []domain.TradeRecord) error {
		records = append(records, chunk...)
		return nil
	})
	if err != nil {
		if store.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return records, true, nil
}

func (r *Runner) readQuoteEvent(ev domain.Event) ([]domain.QuoteRecord, bool, error) {
	var records []domain.QuoteRecord
	path := r.layout.QuoteEventFile(ev.Exchange, ev.Date(), ev.PermNo)
	err := store.ReadQuoteRecords(path, r.chunk, func(chunk []domain.QuoteRecord) error {
		records = append(records, chunk...)
		return nil
	})
	if err != nil {
		if store.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return records, true, nil
}
