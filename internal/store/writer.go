package store

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"trthcli/pkg/contracts/domain"
)

// Writer streams rows into a gzip-compressed CSV file, writing the header
// once on creation. Close must be called to flush the gzip trailer.
type Writer struct {
	f      *os.File
	gz     *gzip.Writer
	w      *csv.Writer
	closed bool
}

// NewWriter creates the target file (and its directories) and writes the
// header row.
func NewWriter(path string, header []string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	gz := gzip.NewWriter(f)
	w := csv.NewWriter(gz)
	if err := w.Write(header); err != nil {
		gz.Close()
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{f: f, gz: gz, w: w}, nil
}

func (w *Writer) write(row []string) error {
	return w.w.Write(row)
}

// Close flushes buffered rows and the gzip stream. Closing twice is a
// no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.gz.Close()
		w.f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := w.gz.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("close gzip: %w", err)
	}
	return w.f.Close()
}

// TradeRecordWriter streams classified trade rows into a daily file.
type TradeRecordWriter struct{ *Writer }

// NewTradeRecordWriter opens a classified trade file for writing.
func NewTradeRecordWriter(path string) (*TradeRecordWriter, error) {
	w, err := NewWriter(path, tradeRecordColumns)
	if err != nil {
		return nil, err
	}
	return &TradeRecordWriter{w}, nil
}

// WriteAll appends a batch of classified trades.
func (w *TradeRecordWriter) WriteAll(records []domain.TradeRecord) error {
	for _, r := range records {
		row := []string{
			r.RIC,
			r.Date.Format(dateLayout),
			formatTimeOfDay(r.Time),
			r.ExCntrbID,
			formatFloat(r.Price),
			formatFloat(r.Volume),
			formatFloat(r.MarketVWAP),
		}
		for _, b := range tradeFlagValues(&r.Flags) {
			row = append(row, formatFlag(*b))
		}
		if err := w.write(row); err != nil {
			return err
		}
	}
	return nil
}

// QuoteRecordWriter streams classified quote rows into a daily or per-event
// file.
type QuoteRecordWriter struct{ *Writer }

// NewQuoteRecordWriter opens a classified quote file for writing.
func NewQuoteRecordWriter(path string) (*QuoteRecordWriter, error) {
	w, err := NewWriter(path, quoteRecordColumns)
	if err != nil {
		return nil, err
	}
	return &QuoteRecordWriter{w}, nil
}

// WriteAll appends a batch of classified quotes.
func (w *QuoteRecordWriter) WriteAll(records []domain.QuoteRecord) error {
	for _, r := range records {
		row := []string{
			r.RIC,
			r.Date.Format(dateLayout),
			formatTimeOfDay(r.Time),
			formatFloat(r.BidPrice),
			formatFloat(r.BidSize),
			formatFloat(r.AskPrice),
			formatFloat(r.AskSize),
		}
		for _, b := range quoteFlagValues(&r.Flags) {
			row = append(row, formatFlag(*b))
		}
		if err := w.write(row); err != nil {
			return err
		}
	}
	return nil
}

// TradeTickWriter streams raw trade ticks into a daily file during the TAS
// split.
type TradeTickWriter struct{ *Writer }

// NewTradeTickWriter opens a raw daily trade file for writing.
func NewTradeTickWriter(path string) (*TradeTickWriter, error) {
	w, err := NewWriter(path, tradeTickColumns)
	if err != nil {
		return nil, err
	}
	return &TradeTickWriter{w}, nil
}

// WriteAll appends a batch of raw trade ticks.
func (w *TradeTickWriter) WriteAll(ticks []domain.TradeTick) error {
	for _, t := range ticks {
		row := []string{
			t.RIC, t.DateG, t.TimeG, strconv.Itoa(t.GMTOffset), t.ExCntrbID,
			formatFloat(t.Price), formatFloat(t.Volume),
			formatFloat(t.MarketVWAP), t.Qualifiers, t.SeqNo, t.ExchTime,
			t.TrdQteDate,
		}
		if err := w.write(row); err != nil {
			return err
		}
	}
	return nil
}

// QuoteTickWriter streams raw quote ticks into a daily file during the TAS
// split.
type QuoteTickWriter struct{ *Writer }

// NewQuoteTickWriter opens a raw daily quote file for writing.
func NewQuoteTickWriter(path string) (*QuoteTickWriter, error) {
	w, err := NewWriter(path, quoteTickColumns)
	if err != nil {
		return nil, err
	}
	return &QuoteTickWriter{w}, nil
}

// WriteAll appends a batch of raw quote ticks.
func (w *QuoteTickWriter) WriteAll(ticks []domain.QuoteTick) error {
	for _, t := range ticks {
		row := []string{
			t.RIC, t.DateG, t.TimeG, strconv.Itoa(t.GMTOffset), t.BuyerID,
			formatFloat(t.BidPrice), formatFloat(t.BidSize), t.SellerID,
			formatFloat(t.AskPrice), formatFloat(t.AskSize), t.Qualifiers,
			t.QuoteTime,
		}
		if err := w.write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTradeRecords writes a complete classified trade table in one call.
// Used for the anomaly side tables and realigned daily files, which are
// materialized in memory before writing.
func WriteTradeRecords(path string, records []domain.TradeRecord) error {
	w, err := NewTradeRecordWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// WriteQuoteRecords writes a complete classified quote table in one call.
func WriteQuoteRecords(path string, records []domain.QuoteRecord) error {
	w, err := NewQuoteRecordWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// timestampLayout renders absolute timestamps in resampled outputs.
const timestampLayout = "2006-01-02 15:04:05"

// WriteQuoteGrids writes one resampled quote grid table.
func WriteQuoteGrids(path string, offsetColumn string, rows []domain.QuoteGridRow) error {
	header := []string{
		"PERMNO", "EA_Time", "EA_Timestamp", "#RIC", "Exchange", offsetColumn,
		"Bid Price", "Bid Size", "Ask Price", "Ask Size",
	}
	w, err := NewWriter(path, header)
	if err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			strconv.FormatInt(r.PermNo, 10),
			r.EventDate.Format(dateLayout),
			r.EventTimestamp.Format(timestampLayout),
			r.RIC,
			r.Exchange,
			strconv.Itoa(r.Offset),
			formatFloat(r.BidPrice),
			formatFloat(r.BidSize),
			formatFloat(r.AskPrice),
			formatFloat(r.AskSize),
		}
		if err := w.write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// WriteTradeGrids writes the resampled trade price grid table.
func WriteTradeGrids(path string, rows []domain.TradeGridRow) error {
	header := []string{
		"PERMNO", "EA_Time", "EA_Timestamp", "#RIC", "Exchange",
		"MinutesAfter", "MinutesAfterOpen", "Price",
	}
	w, err := NewWriter(path, header)
	if err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			strconv.FormatInt(r.PermNo, 10),
			r.EventDate.Format(dateLayout),
			r.EventTimestamp.Format(timestampLayout),
			r.RIC,
			r.Exchange,
			strconv.Itoa(r.MinutesAfter),
			strconv.Itoa(r.MinutesAfterOpen),
			formatFloat(r.Price),
		}
		if err := w.write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// WriteAfterHoursTrades writes the after-hours trade analysis table.
func WriteAfterHoursTrades(path string, rows []domain.AfterHoursTrade) error {
	header := []string{
		"permno", "EA_Timestamp", "#RIC", "Date", "Timestamp", "Ex/Cntrb.ID",
		"Price", "Volume", "Duration", "LogRet", "CumRet", "LogPrice",
		"LogPrice_1", "Sweep", "OddLot", "TradeID", "Dark", "Primary",
	}
	w, err := NewWriter(path, header)
	if err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			strconv.FormatInt(r.PermNo, 10),
			r.EventTimestamp.Format(timestampLayout),
			r.RIC,
			r.Date.Format(dateLayout),
			r.Timestamp.Format(timestampLayout),
			r.ExCntrbID,
			formatFloat(r.Price),
			formatFloat(r.Volume),
			formatFloat(r.Duration.Seconds()),
			formatFloat(r.LogRet),
			formatFloat(r.CumRet),
			formatFloat(r.LogPrice),
			formatFloat(r.PrevLogPrice),
			formatFlag(r.Sweep),
			formatFlag(r.OddLot),
			strconv.Itoa(r.TradeID),
			formatFlag(r.Dark),
			formatFlag(r.Primary),
		}
		if err := w.write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// WriteEventStats writes the descriptive statistics table. Bin labels name
// the left-closed intervals of the volume and value histograms.
func WriteEventStats(path string, volumeBins, valueBins []string, rows []domain.EventStats) error {
	header := []string{"#RIC", "Date", "Sample", "NumberOfTrades"}
	for _, b := range volumeBins {
		header = append(header, "Volume "+b)
	}
	for _, b := range valueBins {
		header = append(header, "Value "+b)
	}
	w, err := NewWriter(path, header)
	if err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.RIC,
			r.Date.Format(dateLayout),
			r.Sample,
			strconv.Itoa(r.NumberOfTrades),
		}
		for _, v := range r.VolumeShares {
			row = append(row, formatFloat(v))
		}
		for _, v := range r.ValueShares {
			row = append(row, formatFloat(v))
		}
		if err := w.write(row); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
