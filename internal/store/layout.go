// Package store reads and writes the per-exchange per-day file tree that
// every pipeline stage hands to the next: gzip-compressed CSV daily files
// named by exchange and date, plus per-event extracts named by event date
// and permno.
package store

import (
	"fmt"
	"path/filepath"
	"time"
)

// Layout holds the root directory of every stage's file tree. It is
// populated from configuration; no path is ever derived from process-wide
// state.
type Layout struct {
	RawDir          string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	TradesDir       string `yaml:"trades_dir" envconfig:"TRADES_DIR" validate:"required"`
	QuotesDir       string `yaml:"quotes_dir" envconfig:"QUOTES_DIR" validate:"required"`
	ParsedDir       string `yaml:"parsed_dir" envconfig:"PARSED_DIR" validate:"required"`
	FinalDir        string `yaml:"final_dir" envconfig:"FINAL_DIR" validate:"required"`
	ErrorsDir       string `yaml:"errors_dir" envconfig:"ERRORS_DIR" validate:"required"`
	TradeEventsDir  string `yaml:"trade_events_dir" envconfig:"TRADE_EVENTS_DIR" validate:"required"`
	QuoteEventsDir  string `yaml:"quote_events_dir" envconfig:"QUOTE_EVENTS_DIR" validate:"required"`
	ResampledDir    string `yaml:"resampled_dir" envconfig:"RESAMPLED_DIR" validate:"required"`
}

const dateLayout = "2006-01-02"

// dailyFile builds the `EXCH/YYYY/EXCH-<kind>-YYYY-MM-DD.csv.gz` path used
// by every daily stage.
func dailyFile(root, exch, kind string, date time.Time) string {
	name := fmt.Sprintf("%s-%s-%s.csv.gz", exch, kind, date.Format(dateLayout))
	return filepath.Join(root, exch, fmt.Sprintf("%d", date.Year()), name)
}

// eventFile builds the `EXCH/YYYY/EXCH-<kind>-YYYY-MM-DD_PERMNO.csv.gz`
// path for per-event extracts, keyed by the event's first reference date.
func eventFile(root, exch, kind string, date time.Time, permno int64) string {
	name := fmt.Sprintf("%s-%s-%s_%d.csv.gz", exch, kind, date.Format(dateLayout), permno)
	return filepath.Join(root, exch, fmt.Sprintf("%d", date.Year()), name)
}

// TASMonthDir is the directory holding one exchange-month of raw
// Time-and-Sales capture files.
func (l Layout) TASMonthDir(exch string, year int, month time.Month) string {
	return filepath.Join(l.RawDir, exch, "TAS", fmt.Sprintf("%d", year), fmt.Sprintf("%02d", month))
}

// TradesFile is the daily trade file split out of the raw TAS capture.
func (l Layout) TradesFile(exch string, date time.Time) string {
	return dailyFile(l.TradesDir, exch, "Trades", date)
}

// QuotesFile is the daily quote file split out of the raw TAS capture.
func (l Layout) QuotesFile(exch string, date time.Time) string {
	return dailyFile(l.QuotesDir, exch, "Quotes", date)
}

// ParsedTradesFile is the classified daily trade file.
func (l Layout) ParsedTradesFile(exch string, date time.Time) string {
	return dailyFile(l.ParsedDir, exch, "TradesParsed", date)
}

// FinalTradesFile is the day-boundary-realigned daily trade file.
func (l Layout) FinalTradesFile(exch string, date time.Time) string {
	return dailyFile(l.FinalDir, exch, "TradesParsed", date)
}

// LateTradesFile is the anomaly side table of unexplained late trades.
func (l Layout) LateTradesFile(exch string, date time.Time) string {
	name := fmt.Sprintf("%s-LateTrades-%s.csv.gz", exch, date.Format(dateLayout))
	return filepath.Join(l.ErrorsDir, exch, name)
}

// EarlyTradesFile is the anomaly side table of unexplained early trades.
func (l Layout) EarlyTradesFile(exch string, date time.Time) string {
	name := fmt.Sprintf("%s-EarlyTrades-%s.csv.gz", exch, date.Format(dateLayout))
	return filepath.Join(l.ErrorsDir, exch, name)
}

// TradeEventFile is the per-event concatenated trade extract.
func (l Layout) TradeEventFile(exch string, date time.Time, permno int64) string {
	return eventFile(l.TradeEventsDir, exch, "TradesAroundEvent", date, permno)
}

// QuoteEventFile is the per-event concatenated quote extract.
func (l Layout) QuoteEventFile(exch string, date time.Time, permno int64) string {
	return eventFile(l.QuoteEventsDir, exch, "QuotesAroundEvent", date, permno)
}

// QuoteGridFile is the aggregate resampled quote series for one anchor
// and step, all events appended.
func (l Layout) QuoteGridFile(anchor, step string) string {
	return filepath.Join(l.ResampledDir, fmt.Sprintf("Quotes-%s-%s.csv.gz", anchor, step))
}

// TradeGridFile is the aggregate resampled trade series.
func (l Layout) TradeGridFile() string {
	return filepath.Join(l.ResampledDir, "Trades-Announcement-Minutes.csv.gz")
}

// AfterHoursFile is the aggregate after-hours trade analysis.
func (l Layout) AfterHoursFile() string {
	return filepath.Join(l.ResampledDir, "AfterHoursTrades.csv.gz")
}

// EventStatsFile is the aggregate pre/post descriptive statistics table.
func (l Layout) EventStatsFile() string {
	return filepath.Join(l.ResampledDir, "EventStats.csv.gz")
}
