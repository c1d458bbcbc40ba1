package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/bookmark-comb/app/api"
	"github.com/lysyi3m/bookmark-comb/app/cfg"
	"github.com/lysyi3m/bookmark-comb/app/config"
	"github.com/lysyi3m/bookmark-comb/app/database"
	"github.com/lysyi3m/bookmark-comb/app/pipeline"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	switch appCfg.Command {
	case cfg.CommandVersion:
		fmt.Println(appCfg.Version)
	case cfg.CommandServe:
		err = serve(appCfg)
	default:
		err = process(appCfg)
	}

	if err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func openDatabase(path string) (*database.DB, error) {
	db, err := database.Open(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Database ready", "path", path, "version", version, "dirty", dirty)

	return db, nil
}

func process(appCfg *cfg.Cfg) error {
	pipelineCfg, err := config.NewLoader(appCfg.ConfigPath).Load()
	if err != nil {
		return err
	}

	db, err := openDatabase(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipelineCfg, database.NewRunRepository(db), database.NewFetchCacheRepository(db), os.Stdout)
	_, err = p.Run(ctx)
	return err
}

func serve(appCfg *cfg.Cfg) error {
	pipelineCfg, err := config.NewLoader(appCfg.ConfigPath).Load()
	if err != nil {
		return err
	}

	db, err := openDatabase(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	handler := api.NewHandler(database.NewRunRepository(db), config.ExpandPath(pipelineCfg.Output.ExportDir))
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}
