package timeref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		coarse    time.Time
		reference time.Duration
		fallback  time.Duration
		offset    int
		expected  time.Time
	}{
		{
			name:      "clocks agree",
			coarse:    date(2014, time.July, 3),
			reference: 10*time.Hour + 30*time.Minute,
			fallback:  10*time.Hour + 30*time.Minute,
			expected:  time.Date(2014, time.July, 3, 10, 30, 0, 0, time.UTC),
		},
		{
			name:      "small drift keeps the reference clock",
			coarse:    date(2014, time.July, 3),
			reference: 10 * time.Hour,
			fallback:  10*time.Hour + 2*time.Second,
			expected:  time.Date(2014, time.July, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "capture clock crossed midnight first",
			coarse:    date(2014, time.July, 4),
			reference: 23*time.Hour + 59*time.Minute + 59*time.Second,
			fallback:  1 * time.Second,
			expected:  time.Date(2014, time.July, 3, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "venue clock crossed midnight first",
			coarse:    date(2014, time.July, 3),
			reference: 1 * time.Second,
			fallback:  23*time.Hour + 59*time.Minute + 59*time.Second,
			expected:  time.Date(2014, time.July, 4, 0, 0, 1, 0, time.UTC),
		},
		{
			name:      "gmt offset shifts the result",
			coarse:    date(2014, time.July, 3),
			reference: 15 * time.Hour,
			fallback:  15 * time.Hour,
			offset:    -5,
			expected:  time.Date(2014, time.July, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "drift at the threshold is not corrected",
			coarse:    date(2014, time.July, 3),
			reference: 1 * time.Hour,
			fallback:  24 * time.Hour,
			expected:  time.Date(2014, time.July, 3, 1, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.coarse, tt.reference, tt.fallback, tt.offset)
			assert.True(t, got.Equal(tt.expected), "got %v, expected %v", got, tt.expected)
		})
	}
}

func TestSplitDate(t *testing.T) {
	ts := time.Date(2014, time.July, 3, 16, 45, 30, 123400000, time.UTC)
	d, tod := SplitDate(ts)
	assert.True(t, d.Equal(date(2014, time.July, 3)))
	assert.Equal(t, 16*time.Hour+45*time.Minute+30*time.Second+1234*100*time.Microsecond, tod)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "midnight",
			input:    "00:00:00.0000",
			expected: 0,
		},
		{
			name:     "fraction is ten-thousandths of a second",
			input:    "09:29:31.2500",
			expected: 9*time.Hour + 29*time.Minute + 31*time.Second + 250*time.Millisecond,
		},
		{
			name:     "end of day does not overflow",
			input:    "23:59:59.9999",
			expected: 24*time.Hour - 100*time.Microsecond,
		},
		{
			name:    "too short",
			input:   "9:29:31.2500",
			wantErr: true,
		},
		{
			name:    "missing fraction",
			input:   "09:29:31",
			wantErr: true,
		},
		{
			name:    "non-digit fraction",
			input:   "09:29:31.25x0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSimpleDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "uppercase month",
			input:    "03-JUL-2014",
			expected: date(2014, time.July, 3),
		},
		{
			name:     "mixed case month",
			input:    "28-Feb-2011",
			expected: date(2011, time.February, 28),
		},
		{
			name:    "unknown month",
			input:   "03-XYZ-2014",
			wantErr: true,
		},
		{
			name:    "wrong width",
			input:   "3-JUL-2014",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSimpleDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v, expected %v", got, tt.expected)
		})
	}
}

func TestCachesMemoize(t *testing.T) {
	times := make(TimeCache)
	d1, err := times.Parse("10:00:00.0000")
	require.NoError(t, err)
	d2, err := times.Parse("10:00:00.0000")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, times, 1)

	_, err = times.Parse("bogus")
	assert.Error(t, err)
	assert.Len(t, times, 1)

	dates := make(DateCache)
	_, err = dates.Parse("03-JUL-2014")
	require.NoError(t, err)
	_, err = dates.Parse("03-JUL-2014")
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}
