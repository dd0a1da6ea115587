package events

import (
	"strconv"
	"time"

	"trthcli/internal/calendar"
	"trthcli/pkg/contracts/domain"
)

// Histogram bins for the descriptive statistics, left-closed. The last bin
// is unbounded.
var (
	volumeBinEdges = []float64{0, 100, 500, 1000}
	valueBinEdges  = []float64{0, 1000, 5000, 50000}
)

// VolumeBinLabels names the volume histogram bins in column order.
func VolumeBinLabels() []string { return binLabels(volumeBinEdges) }

// ValueBinLabels names the value histogram bins in column order.
func ValueBinLabels() []string { return binLabels(valueBinEdges) }

func binLabels(edges []float64) []string {
	labels := make([]string, len(edges))
	for i := range edges {
		lo := strconv.FormatFloat(edges[i], 'f', -1, 64)
		if i == len(edges)-1 {
			labels[i] = "[" + lo + ", inf)"
		} else {
			hi := strconv.FormatFloat(edges[i+1], 'f', -1, 64)
			labels[i] = "[" + lo + ", " + hi + ")"
		}
	}
	return labels
}

// binIndex returns which left-closed bin v falls into, or -1 below the
// first edge.
func binIndex(edges []float64, v float64) int {
	idx := -1
	for i, e := range edges {
		if v >= e {
			idx = i
		}
	}
	return idx
}

// DescriptiveStats computes the volume and value bin shares of the
// regular-hours (non Form-T) trades on the announcement evening's session
// and the following session. Sides with no qualifying trades are omitted;
// nil means neither side had any.
func DescriptiveStats(cal *calendar.Calendar, ev domain.Event, records []domain.TradeRecord) []domain.EventStats {
	anchor := ev.RefTime1
	eventDate := ev.Date()
	if timeOfDay(anchor) <= 12*time.Hour {
		eventDate = cal.AddBusinessDays(eventDate, -1)
	}
	nextDate := cal.AddBusinessDays(eventDate, 1)

	var pre, post []domain.TradeRecord
	for _, r := range records {
		if r.Flags.FormT {
			continue
		}
		switch {
		case r.Date.Equal(eventDate):
			pre = append(pre, r)
		case r.Date.Equal(nextDate):
			post = append(post, r)
		}
	}

	var out []domain.EventStats
	if len(pre) > 0 {
		out = append(out, sampleStats(ev, ev.Date(), "pre_all", pre))
	}
	if len(post) > 0 {
		out = append(out, sampleStats(ev, ev.Date(), "post_all", post))
	}
	return out
}

func sampleStats(ev domain.Event, date time.Time, sample string, records []domain.TradeRecord) domain.EventStats {
	volCounts := make([]float64, len(volumeBinEdges))
	valCounts := make([]float64, len(valueBinEdges))
	for _, r := range records {
		if i := binIndex(volumeBinEdges, r.Volume); i >= 0 {
			volCounts[i]++
		}
		if i := binIndex(valueBinEdges, r.Price*r.Volume); i >= 0 {
			valCounts[i]++
		}
	}
	normalize(volCounts)
	normalize(valCounts)
	return domain.EventStats{
		RIC:            ev.RIC,
		Date:           date,
		Sample:         sample,
		NumberOfTrades: len(records),
		VolumeShares:   volCounts,
		ValueShares:    valCounts,
	}
}

func normalize(counts []float64) {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return
	}
	for i := range counts {
		counts[i] /= total
	}
}
