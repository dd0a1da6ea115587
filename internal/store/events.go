package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"trthcli/pkg/contracts/domain"
)

var eventColumns = []string{"permno", "RefTime1", "RefTime2", "#RIC", "Exchange"}

// ReadEvents loads the announcement list driving the event stages. The
// file is plain CSV, one row per announcement, with both reference
// timestamps in local exchange time.
func ReadEvents(path string) ([]domain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read event list header: %w", err)
	}
	idx, err := columnIndex(header, eventColumns)
	if err != nil {
		return nil, fmt.Errorf("event list %s: %w", path, err)
	}

	var events []domain.Event
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("event list %s line %d: %w", path, line, err)
		}
		ev, err := decodeEvent(idx, row)
		if err != nil {
			return nil, fmt.Errorf("event list %s line %d: %w", path, line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeEvent(idx map[string]int, row []string) (domain.Event, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	permno, err := strconv.ParseInt(field("permno"), 10, 64)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid permno: %w", err)
	}
	ref1, err := time.Parse(timestampLayout, field("RefTime1"))
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid RefTime1: %w", err)
	}
	ref2, err := time.Parse(timestampLayout, field("RefTime2"))
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid RefTime2: %w", err)
	}

	return domain.Event{
		PermNo:   permno,
		RefTime1: ref1,
		RefTime2: ref2,
		RIC:      field("#RIC"),
		Exchange: field("Exchange"),
	}, nil
}
