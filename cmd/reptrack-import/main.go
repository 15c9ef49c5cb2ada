package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/reptrack/internal/config"
	"github.com/claude/reptrack/internal/importer"
	"github.com/claude/reptrack/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to a device export JSON file (required)")
	userID := flag.String("user", "", "user id to import history under (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" || *userID == "" {
		fmt.Fprintf(os.Stderr, "Usage: reptrack-import -config config.yaml -path export.json -user <id> [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	imp := importer.New(db, log, *dryRun)
	stats, err := imp.Import(ctx, *exportPath, *userID)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		log.Info("dry run complete", "would_insert", stats.WorkoutsInserted)
	}
	for _, rejected := range stats.RejectedRecords {
		log.Warn("rejected record", "detail", rejected)
	}
}
