// Command eventextract builds one trade extract and one quote extract
// per earnings announcement by scanning the daily file tree over each
// event's business-day window.
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
	missing, err := runner.ExtractEvents(context.Background(), events)
	if err != nil {
		logger.Error("Extraction failed", "error", err)
		os.Exit(1)
	}
	for _, miss := range missing {
		logger.Warn("No data found for event",
			slog.Int64("permno", miss.Event.PermNo),
			slog.Time("date", miss.Event.Date()),
			slog.String("ric", miss.Event.RIC),
			slog.String("kind", string(miss.Kind)))
	}

	logger.Info("Extraction finished",
		slog.Int("events", len(events)),
		slog.Int("missing", len(missing)))
}
