package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/phanxgames/framegraph"
)

func setupLogging(ctx *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if ctx.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	framegraph.SetLogger(logger)
	return logger
}
