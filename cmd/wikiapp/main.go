package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/KareemHegazy123/WikiApp/internal/config"
	"github.com/KareemHegazy123/WikiApp/internal/logger"
	"github.com/KareemHegazy123/WikiApp/internal/router"
	"github.com/KareemHegazy123/WikiApp/internal/setup"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.LogLevel, cfg.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("dependency setup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	deps.Sweeper.StartBackgroundSweeps(ctx, cfg.SweepInterval)

	server := configureServer(cfg.ListenAddr, router.New(deps))

	logger.Log.Info("starting wiki server", "addr", server.Addr, "db_path", cfg.DbPath)
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func configureServer(addr string, handler http.Handler) *http.Server {
	// PORT wins over the configured listen address on container platforms
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
