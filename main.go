package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/webtesting/sitetasks/cmd"
	"github.com/webtesting/sitetasks/internal/version"
)

func main() {
	if slices.Contains(os.Args, "--debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		slog.Debug("debug logging enabled", "version", version.Version)
	}

	// SITETASKS_* flag sources may come from a local .env file.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Root().Run(ctx, os.Args); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			slog.Info("interrupted", "cause", cause)
			os.Exit(130)
		}
		slog.Error("sitetasks failed", "error", err)
		os.Exit(1)
	}
}
