package calendar

import "time"

// earlyCloseDates are the shortened sessions in the sample, closing at
// 13:00 ET instead of 16:00.
var earlyCloseDates = map[string]bool{
	"2010-11-26": true,
	"2011-11-25": true,
	"2012-07-03": true,
	"2012-11-23": true,
	"2012-12-24": true,
	"2013-07-03": true,
	"2013-11-29": true,
	"2013-12-24": true,
	"2014-07-03": true,
	"2014-11-28": true,
	"2014-12-24": true,
	"2015-11-27": true,
	"2015-12-24": true,
}

// IsEarlyClose reports whether the market closed at 13:00 on the date.
func IsEarlyClose(date time.Time) bool {
	return earlyCloseDates[midnight(date).Format("2006-01-02")]
}

// SessionBounds returns the nominal trading-hours bounds on the date.
// The open carries a 30 second grace before the 09:30 opening cross and the
// close a 30 second grace after the closing cross.
func SessionBounds(date time.Time) (open, close time.Time) {
	d := midnight(date)
	open = d.Add(9*time.Hour + 29*time.Minute + 30*time.Second)
	if IsEarlyClose(d) {
		close = d.Add(13*time.Hour + 30*time.Second)
	} else {
		close = d.Add(16*time.Hour + 30*time.Second)
	}
	return open, close
}

// MarketOpen returns the 09:30 opening cross instant on the date.
func MarketOpen(date time.Time) time.Time {
	return midnight(date).Add(9*time.Hour + 30*time.Minute)
}
