// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/logging"
	"github.com/tomtom215/graveyard/internal/middleware"
	"github.com/tomtom215/graveyard/internal/scheduler"
	"github.com/tomtom215/graveyard/internal/store"
	"github.com/tomtom215/graveyard/internal/supervisor"
	"github.com/tomtom215/graveyard/internal/websocket"
)

// version is set at release time; "dev" covers local builds.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var cli config.CLIOverrides
	var showVersion bool

	flag.IntVar(&cli.Port, "p", 0, "listen port (default 8398)")
	flag.StringVar(&cli.DatabasePath, "s", "", "database file path (default var/data/graveyard.db)")
	flag.StringVar(&cli.CacheDir, "c", "", "attachment cache directory (default var/cache)")
	flag.StringVar(&cli.LogDir, "l", "", "log directory")
	flag.BoolVar(&cli.Debug, "d", false, "enable debug logging")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("graveyardd " + version)
		return 0
	}

	cfg, err := config.Load(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, "graveyardd: "+err.Error())
		return 1
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logger := logging.Logger()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		logger.Error().Err(err).Int("port", cfg.Server.Port).Msg("port already in use")
		return 1
	}

	enc, err := config.NewCredentialEncryptor(cfg.Security.CredentialSecret)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build credential encryptor")
		return 1
	}

	st, err := store.Open(cfg.Store, enc)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open store")
		return 1
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	settings, err := st.LoadSettings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load settings")
		return 1
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logger.Error().Err(err).Msg("failed to build supervisor tree")
		return 1
	}

	hub := websocket.NewHub()
	tree.AddAPIService(hub)

	sched := scheduler.New(tree, st, hub, cfg.Store.CacheDir, logger)
	tree.AddAPIService(sched)

	if err := sched.StartWorkers(ctx, settings); err != nil {
		logger.Error().Err(err).Msg("failed to start worker fleet")
		return 1
	}

	srv := &http.Server{
		Handler:           sched.Router(middleware.RequestID, middleware.Compression, middleware.PrometheusMetrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	treeDone := tree.ServeBackground(ctx)

	logger.Info().Int("port", cfg.Server.Port).Str("database", cfg.Store.DatabasePath).Msg("graveyardd started")

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server failed")
		}
	case err := <-treeDone:
		if err != nil {
			logger.Error().Err(err).Msg("supervisor tree stopped unexpectedly")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = sched.StopWorkers(10 * time.Second)

	return 0
}
