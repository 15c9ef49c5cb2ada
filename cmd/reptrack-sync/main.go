package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	syncer "github.com/claude/reptrack/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "upstream fitness backend URL (e.g. https://fitness.example.com)")
	stateDir := flag.String("state-dir", "", "path to the sync state directory (required)")
	accessToken := flag.String("access-token", "", "store this access token before draining")
	refreshToken := flag.String("refresh-token", "", "store this refresh token before draining")
	pendingOnly := flag.Bool("pending", false, "print the pending count and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("reptrack-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *stateDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: reptrack-sync -server <URL> -state-dir <dir> [-access-token T -refresh-token T] [-pending]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	state, err := syncer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open sync state", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *accessToken != "" {
		if err := state.SetTokens(ctx, *accessToken, *refreshToken); err != nil {
			log.Error("failed to store tokens", "error", err)
			os.Exit(1)
		}
		log.Info("tokens stored")
	}

	if *pendingOnly {
		n, err := state.PendingCount(ctx)
		if err != nil {
			log.Error("failed to count pending", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%d pending\n", n)
		return
	}

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -server is required to drain\n")
		os.Exit(1)
	}

	client := syncer.NewClient(*serverURL, state, log)
	worker := syncer.NewWorker(state, client, time.Minute, log)

	delivered, failed := worker.Drain(ctx)
	log.Info("drain finished", "delivered", delivered, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
