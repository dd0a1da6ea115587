package store

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trthcli/pkg/contracts/domain"
)

// tasColumns are the columns a raw Time-and-Sales capture must carry to be
// split; type-specific columns are read leniently since trade and quote
// rows share one header.
var tasColumns = []string{"#RIC", "Type", "Date[G]", "Time[G]", "GMT Offset"}

// Splitter splits raw monthly Time-and-Sales captures into the per-day
// trade and quote files the classification stages consume. Each capture
// file is checksum-verified before ingestion; files failing verification
// are skipped and logged, matching the fail-open policy for corrupted
// downloads.
type Splitter struct {
	layout    Layout
	chunkSize int
	logger    *slog.Logger

	// QuoteRICs restricts quote output to the sample symbols when
	// non-empty; trades are always kept in full.
	QuoteRICs map[string]bool
}

// NewSplitter creates a Splitter. A nil logger falls back to the default.
func NewSplitter(layout Layout, chunkSize int, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{layout: layout, chunkSize: chunkSize, logger: logger}
}

// tasFileDate extracts the capture date from a raw file name of the form
// `XXXX-YYYY-MM-DD-TAS-Data...gz`. The boolean is false for names that are
// not TAS data captures.
func tasFileDate(name string) (time.Time, bool) {
	if len(name) < 23 || !strings.HasSuffix(name, ".gz") || name[15:23] != "TAS-Data" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, name[4:14])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// SplitMonth splits one exchange-month of raw captures into daily trade and
// quote files. Multiple capture files for the same date are concatenated in
// name order.
func (s *Splitter) SplitMonth(exch string, year int, month time.Month) error {
	dir := s.layout.TASMonthDir(exch, year, month)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read capture directory: %w", err)
	}

	byDate := make(map[time.Time][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if d, ok := tasFileDate(e.Name()); ok {
			byDate[d] = append(byDate[d], e.Name())
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		names := byDate[date]
		sort.Strings(names)
		if err := s.splitDay(dir, exch, date, names); err != nil {
			return fmt.Errorf("split %s %s: %w", exch, date.Format(dateLayout), err)
		}
	}
	return nil
}

func (s *Splitter) splitDay(dir, exch string, date time.Time, names []string) error {
	trades, err := NewTradeTickWriter(s.layout.TradesFile(exch, date))
	if err != nil {
		return err
	}
	quotes, err := NewQuoteTickWriter(s.layout.QuotesFile(exch, date))
	if err != nil {
		trades.Close()
		return err
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := VerifyChecksum(path); err != nil {
			s.logger.Warn("skipping capture file",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
		if err := s.splitFile(path, trades, quotes); err != nil {
			trades.Close()
			quotes.Close()
			return err
		}
	}

	if err := trades.Close(); err != nil {
		quotes.Close()
		return err
	}
	return quotes.Close()
}

func (s *Splitter) splitFile(path string, trades *TradeTickWriter, quotes *QuoteTickWriter) error {
	g, err := openGzCSV(path, tasColumns)
	if err != nil {
		return err
	}
	defer g.close()

	tradeChunk := make([]domain.TradeTick, 0, s.chunkSize)
	quoteChunk := make([]domain.QuoteTick, 0, s.chunkSize)
	flush := func() error {
		if len(tradeChunk) > 0 {
			if err := trades.WriteAll(tradeChunk); err != nil {
				return err
			}
			tradeChunk = tradeChunk[:0]
		}
		if len(quoteChunk) > 0 {
			if err := quotes.WriteAll(quoteChunk); err != nil {
				return err
			}
			quoteChunk = quoteChunk[:0]
		}
		return nil
	}

	for {
		row, err := g.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		switch domain.TickType(g.field(row, "Type")) {
		case domain.TickTypeTrade:
			t, err := decodeTradeTick(g, row)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tradeChunk = append(tradeChunk, t)
		case domain.TickTypeQuote:
			q, err := decodeQuoteTick(g, row)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if len(s.QuoteRICs) > 0 && !s.QuoteRICs[q.RIC] {
				continue
			}
			quoteChunk = append(quoteChunk, q)
		}
		if len(tradeChunk) >= s.chunkSize || len(quoteChunk) >= s.chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
