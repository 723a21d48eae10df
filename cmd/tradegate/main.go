package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/enerdata/tradegate/internal/config"
	"github.com/enerdata/tradegate/internal/database"
	"github.com/enerdata/tradegate/internal/health"
	"github.com/enerdata/tradegate/internal/tools"
	"github.com/enerdata/tradegate/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to the database catalog (falls back to $"+config.EnvConfigPath+", then "+config.DefaultConfigPath+")")
	healthPort := flag.Int("health-port", 0, "serve /health on this port (0 disables)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("tradegate " + version.String())
		return
	}

	// stdout carries the MCP stream, so all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting tradegate",
		"version", version.Version,
		"commit", version.Commit,
	)

	path := config.ResolvePath(*configPath)
	catalog := config.NewLoader(logger).Load(path)
	logger.Info("catalog loaded",
		"config", path,
		"backends", catalog.Names(),
	)

	manager := database.NewManager(catalog, logger)

	var healthServer *http.Server
	if *healthPort > 0 {
		healthServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", *healthPort),
			Handler: health.NewHandler(manager),
		}
		go func() {
			logger.Info("starting health server", "port", *healthPort)
			if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()
	}

	srv := server.NewMCPServer("tradegate", version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	tools.NewService(manager, logger).Register(srv)

	logger.Info("serving MCP over stdio")
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("stdio server error", "error", err)
	}

	logger.Info("shutting down...")

	if healthServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		healthServer.Shutdown(shutdownCtx)
	}
	manager.Shutdown()

	logger.Info("tradegate stopped")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
