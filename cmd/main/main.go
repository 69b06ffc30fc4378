package main

import (
	"context"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/container"
)

func main() {
	siteName := flag.String("site", "", "target-site profile name from config.yaml")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *siteName == "" {
		log.Fatal("no site profile given, use -site <name>")
	}

	log.Infof("Starting catalog harvester for site %q...", *siteName)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	app, err := container.New(cfg, *siteName)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	result, err := app.Run(context.Background())
	if err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Infof("Run finished: %d paths discovered, %d attempted, %d stalled, %d failed, %d pages, %d rows (%d after dedup)",
		result.PathsDiscovered, result.PathsAttempted, result.PathsStalled, result.PathsFailed,
		result.PagesFetched, result.RowsBeforeDedup, result.RowsAfterDedup)

	// A completed-but-empty run is the only failure an operator cannot
	// distinguish from success without checking counts.
	if result.PathsDiscovered == 0 {
		log.Error("Discovery returned zero paths")
		os.Exit(1)
	}
}
