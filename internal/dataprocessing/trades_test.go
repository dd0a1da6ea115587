package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trthcli/pkg/contracts/domain"
)

func captureDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tick(ric, exchTime, timeG, qualifiers string, volume float64) domain.TradeTick {
	return domain.TradeTick{
		RIC:        ric,
		DateG:      "02-JUN-2014",
		TimeG:      timeG,
		ExCntrbID:  "NAS",
		Price:      10.5,
		Volume:     volume,
		MarketVWAP: math.NaN(),
		Qualifiers: qualifiers,
		ExchTime:   exchTime,
	}
}

func TestClassifyTradesDropsRowsWithoutVolume(t *testing.T) {
	date := captureDate(2014, time.June, 2)
	chunk := []domain.TradeTick{
		tick("MSFT.O", "10:00:00.0000", "10:00:00.1000", "", 0),
		tick("MSFT.O", "10:00:01.0000", "10:00:01.1000", "", math.NaN()),
		tick("MSFT.O", "10:00:02.0000", "10:00:02.1000", "", 100),
	}

	res, err := ClassifyTrades(date, chunk)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 100.0, res.Records[0].Volume)
	assert.Empty(t, res.Late)
	assert.Empty(t, res.Early)
}

func TestClassifyTradesReconcilesTimestamps(t *testing.T) {
	date := captureDate(2014, time.June, 2)

	t.Run("venue clock wins ordinary drift", func(t *testing.T) {
		res, err := ClassifyTrades(date, []domain.TradeTick{
			tick("MSFT.O", "10:00:00.0000", "10:00:02.0000", "", 100),
		})
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		rec := res.Records[0]
		assert.True(t, rec.Date.Equal(date))
		assert.Equal(t, 10*time.Hour, rec.Time)
	})

	t.Run("late report lands on the venue date", func(t *testing.T) {
		// Executed just before midnight on the venue clock, captured just
		// after midnight: the file's coarse date is June 3 but the trade
		// belongs to June 2.
		res, err := ClassifyTrades(captureDate(2014, time.June, 3), []domain.TradeTick{
			{
				RIC:        "MSFT.O",
				DateG:      "03-JUN-2014",
				TimeG:      "00:00:01.0000",
				Price:      10.5,
				Volume:     100,
				MarketVWAP: math.NaN(),
				ExchTime:   "23:59:59.0000",
			},
		})
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		rec := res.Records[0]
		assert.True(t, rec.Date.Equal(captureDate(2014, time.June, 2)), "got %v", rec.Date)
		assert.Equal(t, 23*time.Hour+59*time.Minute+59*time.Second, rec.Time)
	})

	t.Run("venue date column takes precedence", func(t *testing.T) {
		res, err := ClassifyTrades(date, []domain.TradeTick{
			{
				RIC:        "MSFT.O",
				DateG:      "03-JUN-2014",
				TimeG:      "10:00:00.0000",
				Price:      10.5,
				Volume:     100,
				MarketVWAP: math.NaN(),
				ExchTime:   "10:00:00.0000",
				TrdQteDate: "02-JUN-2014",
			},
		})
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.True(t, res.Records[0].Date.Equal(date))
	})

	t.Run("missing venue time falls back to capture time", func(t *testing.T) {
		res, err := ClassifyTrades(date, []domain.TradeTick{
			tick("MSFT.O", "", "10:00:00.0000", "", 100),
		})
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.Equal(t, 10*time.Hour, res.Records[0].Time)
	})

	t.Run("both time columns missing is an error", func(t *testing.T) {
		_, err := ClassifyTrades(date, []domain.TradeTick{
			tick("MSFT.O", "", "", "", 100),
		})
		assert.Error(t, err)
	})
}

func TestClassifyTradesAnomalies(t *testing.T) {
	date := captureDate(2014, time.June, 2)

	tests := []struct {
		name       string
		exchTime   string
		qualifiers string
		late       int
		early      int
	}{
		{"in-session trade is clean", "10:00:00.0000", "", 0, 0},
		{"unexplained late trade", "16:05:00.0000", "", 1, 0},
		{"form T explains a late trade", "16:05:00.0000", "T[LSTSALCOND]", 0, 0},
		{"closing flag explains a late trade", "16:05:00.0000", "6[LSTSALCOND]", 0, 0},
		{"next day flag explains a late trade", "16:05:00.0000", "N[LSTSALCOND]", 0, 0},
		{"unexplained early trade", "09:15:00.0000", "", 0, 1},
		{"form T explains an early trade", "09:15:00.0000", "T[LSTSALCOND]", 0, 0},
		{"opening flag explains an early trade", "09:15:00.0000", "O [CTS_QUAL]", 0, 0},
		{"grace period before open is clean", "09:29:45.0000", "", 0, 0},
		{"grace period after close is clean", "16:00:15.0000", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ClassifyTrades(date, []domain.TradeTick{
				tick("MSFT.O", tt.exchTime, tt.exchTime, tt.qualifiers, 100),
			})
			require.NoError(t, err)
			require.Len(t, res.Records, 1, "anomalous rows stay in the output")
			assert.Len(t, res.Late, tt.late)
			assert.Len(t, res.Early, tt.early)
		})
	}
}

func TestClassifyTradesEmptyChunk(t *testing.T) {
	res, err := ClassifyTrades(captureDate(2014, time.June, 2), nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}
