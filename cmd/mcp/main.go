package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	mcpadapter "github.com/vinarmkumar/HappMeal/internal/adapters/mcp"
	"github.com/vinarmkumar/HappMeal/internal/bootstrap"
	"github.com/vinarmkumar/HappMeal/internal/config"
	"github.com/vinarmkumar/HappMeal/internal/observability/logging"
)

const (
	service = "mcp"
	version = "0.1.0"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	cfg := config.Load()
	// stdout carries the MCP protocol.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, service, cfg.LogLevel))

	resolver, err := bootstrap.NewResolver(context.Background(), cfg, service, nil)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	if err := mcpadapter.NewServer(resolver, version).ServeStdio(); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
