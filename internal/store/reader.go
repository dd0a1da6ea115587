package store

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"trthcli/pkg/contracts/domain"
)

// IsNotExist reports whether an error from a read method means the backing
// daily file is absent. Absent files are a defined skip condition for the
// event scan, never a failure.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// gzCSV is a gzip-compressed CSV file opened for reading with its header
// row already consumed.
type gzCSV struct {
	f   *os.File
	gz  *gzip.Reader
	r   *csv.Reader
	idx map[string]int
}

func openGzCSV(path string, required []string) (*gzCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	r := csv.NewReader(gz)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		gz.Close()
		f.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(header, required)
	if err != nil {
		gz.Close()
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &gzCSV{f: f, gz: gz, r: r, idx: idx}, nil
}

func (g *gzCSV) close() {
	g.gz.Close()
	g.f.Close()
}

func (g *gzCSV) field(row []string, name string) string {
	i, ok := g.idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// readChunks streams a gzip CSV file in chunks of at most chunkSize rows,
// invoking fn per chunk. Decoding a row is delegated to decode.
func readChunks[T any](path string, columns []string, chunkSize int, decode func(*gzCSV, []string) (T, error), fn func([]T) error) error {
	g, err := openGzCSV(path, columns)
	if err != nil {
		return err
	}
	defer g.close()

	chunk := make([]T, 0, chunkSize)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := fn(chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		return nil
	}

	line := 1
	for {
		row, err := g.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, line+1, err)
		}
		line++
		v, err := decode(g, row)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
		chunk = append(chunk, v)
		if len(chunk) == chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func decodeTradeTick(g *gzCSV, row []string) (domain.TradeTick, error) {
	offset, err := parseGMTOffset(g.field(row, "GMT Offset"))
	if err != nil {
		return domain.TradeTick{}, err
	}
	price, err := parseFloat(g.field(row, "Price"))
	if err != nil {
		return domain.TradeTick{}, fmt.Errorf("price: %w", err)
	}
	volume, err := parseFloat(g.field(row, "Volume"))
	if err != nil {
		return domain.TradeTick{}, fmt.Errorf("volume: %w", err)
	}
	vwap, err := parseFloat(g.field(row, "Market VWAP"))
	if err != nil {
		return domain.TradeTick{}, fmt.Errorf("market vwap: %w", err)
	}
	return domain.TradeTick{
		RIC:        g.field(row, "#RIC"),
		DateG:      g.field(row, "Date[G]"),
		TimeG:      g.field(row, "Time[G]"),
		GMTOffset:  offset,
		ExCntrbID:  g.field(row, "Ex/Cntrb.ID"),
		Price:      price,
		Volume:     volume,
		MarketVWAP: vwap,
		Qualifiers: g.field(row, "Qualifiers"),
		SeqNo:      g.field(row, "Seq. No."),
		ExchTime:   g.field(row, "Exch Time"),
		TrdQteDate: g.field(row, "Trd/Qte Date"),
	}, nil
}

func decodeQuoteTick(g *gzCSV, row []string) (domain.QuoteTick, error) {
	offset, err := parseGMTOffset(g.field(row, "GMT Offset"))
	if err != nil {
		return domain.QuoteTick{}, err
	}
	fields := [4]float64{}
	for i, name := range []string{"Bid Price", "Bid Size", "Ask Price", "Ask Size"} {
		v, err := parseFloat(g.field(row, name))
		if err != nil {
			return domain.QuoteTick{}, fmt.Errorf("%s: %w", name, err)
		}
		fields[i] = v
	}
	return domain.QuoteTick{
		RIC:        g.field(row, "#RIC"),
		DateG:      g.field(row, "Date[G]"),
		TimeG:      g.field(row, "Time[G]"),
		GMTOffset:  offset,
		BuyerID:    g.field(row, "Buyer ID"),
		BidPrice:   fields[0],
		BidSize:    fields[1],
		SellerID:   g.field(row, "Seller ID"),
		AskPrice:   fields[2],
		AskSize:    fields[3],
		Qualifiers: g.field(row, "Qualifiers"),
		QuoteTime:  g.field(row, "Quote Time"),
	}, nil
}

func decodeTradeRecord(g *gzCSV, row []string) (domain.TradeRecord, error) {
	date, err := time.Parse(dateLayout, g.field(row, "Date"))
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("date: %w", err)
	}
	tod, err := parseTimeOfDay(g.field(row, "Time"))
	if err != nil {
		return domain.TradeRecord{}, err
	}
	price, err := parseFloat(g.field(row, "Price"))
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("price: %w", err)
	}
	volume, err := parseFloat(g.field(row, "Volume"))
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("volume: %w", err)
	}
	vwap, err := parseFloat(g.field(row, "Market VWAP"))
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("market vwap: %w", err)
	}
	rec := domain.TradeRecord{
		RIC:        g.field(row, "#RIC"),
		Date:       date,
		Time:       tod,
		ExCntrbID:  g.field(row, "Ex/Cntrb.ID"),
		Price:      price,
		Volume:     volume,
		MarketVWAP: vwap,
	}
	flags := tradeFlagValues(&rec.Flags)
	for i, name := range tradeFlagColumns {
		b, err := parseFlag(g.field(row, name))
		if err != nil {
			return domain.TradeRecord{}, fmt.Errorf("%s: %w", name, err)
		}
		*flags[i] = b
	}
	return rec, nil
}

func decodeQuoteRecord(g *gzCSV, row []string) (domain.QuoteRecord, error) {
	date, err := time.Parse(dateLayout, g.field(row, "Date"))
	if err != nil {
		return domain.QuoteRecord{}, fmt.Errorf("date: %w", err)
	}
	tod, err := parseTimeOfDay(g.field(row, "Time"))
	if err != nil {
		return domain.QuoteRecord{}, err
	}
	fields := [4]float64{}
	for i, name := range []string{"Bid Price", "Bid Size", "Ask Price", "Ask Size"} {
		v, err := parseFloat(g.field(row, name))
		if err != nil {
			return domain.QuoteRecord{}, fmt.Errorf("%s: %w", name, err)
		}
		fields[i] = v
	}
	rec := domain.QuoteRecord{
		RIC:      g.field(row, "#RIC"),
		Date:     date,
		Time:     tod,
		BidPrice: fields[0],
		BidSize:  fields[1],
		AskPrice: fields[2],
		AskSize:  fields[3],
	}
	flags := quoteFlagValues(&rec.Flags)
	for i, name := range quoteFlagColumns {
		b, err := parseFlag(g.field(row, name))
		if err != nil {
			return domain.QuoteRecord{}, fmt.Errorf("%s: %w", name, err)
		}
		*flags[i] = b
	}
	return rec, nil
}

// parseGMTOffset accepts whole-hour offsets, tolerating a float rendering
// such as "-5.0".
func parseGMTOffset(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("gmt offset: %w", err)
	}
	return int(f), nil
}

func tradeFlagValues(f *domain.TradeFlags) []*bool {
	return []*bool{
		&f.FormT, &f.Opening, &f.Closing, &f.Cross, &f.Sweep, &f.NextDay,
		&f.Bunched, &f.PriorRefPrice, &f.ExtendedHoursSOoS,
		&f.DerivativelyPriced, &f.AverageTradePrice, &f.CashSale,
		&f.SoldOutOfSequence, &f.OddLot,
	}
}

func quoteFlagValues(f *domain.QuoteFlags) []*bool {
	return []*bool{&f.Regular, &f.Opening, &f.Closing, &f.NoQuote}
}

// ReadTradeTicks streams the raw trade file in chunks of chunkSize rows.
func ReadTradeTicks(path string, chunkSize int, fn func([]domain.TradeTick) error) error {
	return readChunks(path, tradeTickColumns, chunkSize, decodeTradeTick, fn)
}

// ReadQuoteTicks streams the raw quote file in chunks of chunkSize rows.
func ReadQuoteTicks(path string, chunkSize int, fn func([]domain.QuoteTick) error) error {
	return readChunks(path, quoteTickColumns, chunkSize, decodeQuoteTick, fn)
}

// ReadTradeRecords streams a classified trade file in chunks of chunkSize
// rows.
func ReadTradeRecords(path string, chunkSize int, fn func([]domain.TradeRecord) error) error {
	return readChunks(path, tradeRecordColumns, chunkSize, decodeTradeRecord, fn)
}

// ReadQuoteRecords streams a classified quote file in chunks of chunkSize
// rows.
func ReadQuoteRecords(path string, chunkSize int, fn func([]domain.QuoteRecord) error) error {
	return readChunks(path, quoteRecordColumns, chunkSize, decodeQuoteRecord, fn)
}
