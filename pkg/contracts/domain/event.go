package domain

import "time"

// Event describes one earnings announcement to extract records around.
// RefTime1 is the filing-system timestamp (EA time) and RefTime2 the
// feed-detected timestamp (IBES); the scan window spans both.
type Event struct {
	PermNo   int64     `json:"permno" validate:"required"`
	RefTime1 time.Time `json:"ref_time1" validate:"required"`
	RefTime2 time.Time `json:"ref_time2" validate:"required"`
	RIC      string    `json:"ric" validate:"required"`
	Exchange string    `json:"exchange" validate:"required"`
}

// Date returns the event's calendar date, taken from the first reference
// timestamp at midnight.
func (e Event) Date() time.Time {
	y, m, d := e.RefTime1.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.RefTime1.Location())
}

// GridAnchor identifies which reference instant a resampled grid is
// centered on.
type GridAnchor string

const (
	AnchorAnnouncement GridAnchor = "announcement"
	AnchorMarketOpen   GridAnchor = "open"
)

// GridStep identifies the spacing of a resampled grid.
type GridStep string

const (
	StepSecond GridStep = "second"
	StepMinute GridStep = "minute"
)

// EventKey carries the identifying columns stamped on every resampled row
// so grids from many events can be concatenated into one table.
type EventKey struct {
	PermNo         int64     `json:"permno"`
	EventDate      time.Time `json:"event_date"`
	EventTimestamp time.Time `json:"event_timestamp"`
	RIC            string    `json:"ric"`
	Exchange       string    `json:"exchange"`
}

// QuoteGridRow is one grid point of a resampled quote series. Price and
// size fields are NaN when no observation precedes the grid instant.
type QuoteGridRow struct {
	EventKey
	Offset   int     `json:"offset"`
	BidPrice float64 `json:"bid_price"`
	BidSize  float64 `json:"bid_size"`
	AskPrice float64 `json:"ask_price"`
	AskSize  float64 `json:"ask_size"`
}

// TradeGridRow is one grid point of the resampled trade price series on the
// announcement minute grid. MinutesAfterOpen re-expresses the offset
// relative to the following market open.
type TradeGridRow struct {
	EventKey
	MinutesAfter     int     `json:"minutes_after"`
	MinutesAfterOpen int     `json:"minutes_after_open"`
	Price            float64 `json:"price"`
}

// AfterHoursTrade is one Form-T trade between the announcement and the next
// market open, annotated with return and venue characteristics.
type AfterHoursTrade struct {
	EventKey
	TradeID      int           `json:"trade_id"`
	Date         time.Time     `json:"date"`
	Timestamp    time.Time     `json:"timestamp"`
	ExCntrbID    string        `json:"ex_cntrb_id"`
	Price        float64       `json:"price"`
	Volume       float64       `json:"volume"`
	Duration     time.Duration `json:"duration"`
	LogPrice     float64       `json:"log_price"`
	PrevLogPrice float64       `json:"prev_log_price"`
	LogRet       float64       `json:"log_ret"`
	CumRet       float64       `json:"cum_ret"`
	Sweep        bool          `json:"sweep"`
	OddLot       bool          `json:"odd_lot"`
	Dark         bool          `json:"dark"`
	Primary      bool          `json:"primary"`
}

// EventStats holds the volume and value bin shares of the regular-hours
// trades on one side of an event day.
type EventStats struct {
	RIC            string    `json:"ric"`
	Date           time.Time `json:"date"`
	Sample         string    `json:"sample"`
	NumberOfTrades int       `json:"number_of_trades"`
	VolumeShares   []float64 `json:"volume_shares"`
	ValueShares    []float64 `json:"value_shares"`
}
