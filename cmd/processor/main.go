// Command processor turns raw Time-and-Sales captures into realigned
// daily trade files: it splits monthly capture archives into daily
// files, classifies each day's trades, and realigns every day onto its
// true local trading date.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"trthcli/internal/calendar"
	"trthcli/internal/config"
	"trthcli/internal/infrastructure"
	"trthcli/internal/operations"
	"trthcli/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	version := flag.Bool("version", false, "print version and exit")
	exchange := flag.String("exchange", "", "exchange code to process (e.g. NYS)")
	year := flag.Int("year", 0, "capture year to split (with -months)")
	months := flag.String("months", "", "comma-separated month numbers to split, e.g. 1,2,3")
	from := flag.String("from", "", "first capture date to classify (YYYY-MM-DD)")
	to := flag.String("to", "", "last capture date to classify (YYYY-MM-DD)")
	quoteRICs := flag.String("quote-rics", "", "file listing RICs whose quotes to keep, one per line")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if *exchange == "" {
		logger.Error("missing required -exchange flag")
		os.Exit(1)
	}

	runner := operations.NewRunner(cfg, logger, infrastructure.NewMetrics())
	ctx := context.Background()

	if *months != "" {
		if *year == 0 {
			logger.Error("-months requires -year")
			os.Exit(1)
		}
		monthList, err := parseMonths(*months)
		if err != nil {
			logger.Error("Invalid -months value", "error", err)
			os.Exit(1)
		}
		var rics map[string]bool
		if *quoteRICs != "" {
			rics, err = readRICList(*quoteRICs)
			if err != nil {
				logger.Error("Failed to read RIC list", "error", err)
				os.Exit(1)
			}
		}
		if err := runner.SplitMonths(ctx, *exchange, *year, monthList, rics); err != nil {
			logger.Error("Split failed", "error", err)
			os.Exit(1)
		}
	}

	if *from != "" || *to != "" {
		start, err := time.Parse("2006-01-02", *from)
		if err != nil {
			logger.Error("Invalid -from date", "error", err)
			os.Exit(1)
		}
		end, err := time.Parse("2006-01-02", *to)
		if err != nil {
			logger.Error("Invalid -to date", "error", err)
			os.Exit(1)
		}
		dates := calendar.DateRange(start, end)
		if err := runner.ProcessDays(ctx, *exchange, dates); err != nil {
			logger.Error("Processing failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Processor finished")
}

// parseMonths parses a comma-separated month list like "1,2,12".
func parseMonths(s string) ([]time.Month, error) {
	var months []time.Month
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 12 {
			return nil, fmt.Errorf("invalid month %q", part)
		}
		months = append(months, time.Month(n))
	}
	return months, nil
}

// readRICList reads one RIC per line, skipping blanks.
func readRICList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rics := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ric := strings.TrimSpace(scanner.Text())
		if ric != "" {
			rics[ric] = true
		}
	}
	return rics, scanner.Err()
}
