package domain

import "math"

// TickType distinguishes trade and quote rows in a raw TAS file
type TickType string

const (
	TickTypeTrade TickType = "Trade"
	TickTypeQuote TickType = "Quote"
)

// TradeTick is one raw trade row as delivered in a daily TRTH trade file.
// String fields are empty when the source column is null; float fields use
// NaN for null, matching the tabular source encoding.
type TradeTick struct {
	RIC        string  `json:"ric" csv:"#RIC"`
	DateG      string  `json:"date_g" csv:"Date[G]"`
	TimeG      string  `json:"time_g" csv:"Time[G]"`
	GMTOffset  int     `json:"gmt_offset" csv:"GMT Offset"`
	ExCntrbID  string  `json:"ex_cntrb_id" csv:"Ex/Cntrb.ID"`
	Price      float64 `json:"price" csv:"Price"`
	Volume     float64 `json:"volume" csv:"Volume"`
	MarketVWAP float64 `json:"market_vwap" csv:"Market VWAP"`
	Qualifiers string  `json:"qualifiers" csv:"Qualifiers"`
	SeqNo      string  `json:"seq_no" csv:"Seq. No."`
	ExchTime   string  `json:"exch_time" csv:"Exch Time"`
	TrdQteDate string  `json:"trd_qte_date" csv:"Trd/Qte Date"`
}

// HasVolume reports whether the tick carries a usable volume. Rows without
// volume are not trades and are dropped before classification.
func (t TradeTick) HasVolume() bool {
	return !math.IsNaN(t.Volume) && t.Volume != 0
}

// QuoteTick is one raw quote row as delivered in a daily TRTH quote file.
type QuoteTick struct {
	RIC        string  `json:"ric" csv:"#RIC"`
	DateG      string  `json:"date_g" csv:"Date[G]"`
	TimeG      string  `json:"time_g" csv:"Time[G]"`
	GMTOffset  int     `json:"gmt_offset" csv:"GMT Offset"`
	BuyerID    string  `json:"buyer_id" csv:"Buyer ID"`
	BidPrice   float64 `json:"bid_price" csv:"Bid Price"`
	BidSize    float64 `json:"bid_size" csv:"Bid Size"`
	SellerID   string  `json:"seller_id" csv:"Seller ID"`
	AskPrice   float64 `json:"ask_price" csv:"Ask Price"`
	AskSize    float64 `json:"ask_size" csv:"Ask Size"`
	Qualifiers string  `json:"qualifiers" csv:"Qualifiers"`
	QuoteTime  string  `json:"quote_time" csv:"Quote Time"`
}
