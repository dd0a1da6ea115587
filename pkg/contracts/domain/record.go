package domain

import "time"

// TradeFlags holds the boolean trade qualifier classification for one record.
// Field order matches the output column order of parsed trade files.
type TradeFlags struct {
	FormT              bool `json:"form_t"`
	Opening            bool `json:"opening"`
	Closing            bool `json:"closing"`
	Cross              bool `json:"cross"`
	Sweep              bool `json:"sweep"`
	NextDay            bool `json:"next_day"`
	Bunched            bool `json:"bunched"`
	PriorRefPrice      bool `json:"prior_ref_price"`
	ExtendedHoursSOoS  bool `json:"extended_hours_soos"`
	DerivativelyPriced bool `json:"derivatively_priced"`
	AverageTradePrice  bool `json:"average_trade_price"`
	CashSale           bool `json:"cash_sale"`
	SoldOutOfSequence  bool `json:"sold_out_of_sequence"`
	OddLot             bool `json:"odd_lot"`
}

// QuoteFlags holds the boolean quote qualifier classification for one record.
type QuoteFlags struct {
	Regular bool `json:"regular"`
	Opening bool `json:"opening"`
	Closing bool `json:"closing"`
	NoQuote bool `json:"no_quote"`
}

// TradeRecord is a classified trade with its reconciled absolute timestamp
// split into a local calendar date and a time-of-day offset.
type TradeRecord struct {
	RIC        string        `json:"ric"`
	Date       time.Time     `json:"date"`
	Time       time.Duration `json:"time"`
	ExCntrbID  string        `json:"ex_cntrb_id"`
	Price      float64       `json:"price"`
	Volume     float64       `json:"volume"`
	MarketVWAP float64       `json:"market_vwap"`
	Flags      TradeFlags    `json:"flags"`
}

// Timestamp returns the reconciled absolute timestamp of the trade.
func (r TradeRecord) Timestamp() time.Time {
	return r.Date.Add(r.Time)
}

// QuoteRecord is a classified quote. Date stays on the capture-day boundary
// of the source file while Time carries the reconciled time-of-day, matching
// the parsed quote file contract.
type QuoteRecord struct {
	RIC      string        `json:"ric"`
	Date     time.Time     `json:"date"`
	Time     time.Duration `json:"time"`
	BidPrice float64       `json:"bid_price"`
	BidSize  float64       `json:"bid_size"`
	AskPrice float64       `json:"ask_price"`
	AskSize  float64       `json:"ask_size"`
	Flags    QuoteFlags    `json:"flags"`
}

// Timestamp returns the quote timestamp rebuilt from Date and Time.
func (r QuoteRecord) Timestamp() time.Time {
	return r.Date.Add(r.Time)
}
