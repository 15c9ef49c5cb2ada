package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/reptrack/internal/config"
	"github.com/claude/reptrack/internal/mcp"
	"github.com/claude/reptrack/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.String("user", "", "user id to scope all queries to (defaults to the local single-user identity)")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	s := mcp.New(db, Version, log)

	opts := []server.StdioOption{}
	if *userID != "" {
		opts = append(opts, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
			return mcp.WithUserID(ctx, *userID)
		}))
	}

	log.Info("RepTrack MCP server on stdio", "version", Version)
	if err := server.ServeStdio(s, opts...); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
