// Command resampler turns per-event extracts into the aggregate study
// tables: quote and trade grids in event time, the after-hours trade
// analysis, and pre/post descriptive statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"trthcli/internal/config"
	"trthcli/internal/infrastructure"
	"trthcli/internal/operations"
	"trthcli/internal/store"
	"trthcli/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	eventsPath := flag.String("events", "", "path to the announcement list CSV")
	version := flag.Bool("version", false, "print version and exit")
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

	if *eventsPath == "" {
		logger.Error("missing required -events flag")
		os.Exit(1)
	}
	events, err := store.ReadEvents(*eventsPath)
	if err != nil {
		logger.Error("Failed to load announcement list", "error", err)
		os.Exit(1)
	}

	runner := operations.NewRunner(cfg, logger, infrastructure.NewMetrics())
	if err := runner.ResampleEvents(context.Background(), events); err != nil {
		logger.Error("Resampling failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Resampling finished", slog.Int("events", len(events)))
}
