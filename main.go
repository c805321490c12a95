package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/config"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/logging"
	"github.com/egubrno/svr-dashboard-go/market"
	"github.com/egubrno/svr-dashboard-go/task"
	"github.com/egubrno/svr-dashboard-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := hours.SetGuiTimezone(cnfg.Gui.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set GUI timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("dashboard is starting...", slog.String("version", Version))

	memLog := logging.NewMemoryHandler(
		cnfg.Logging.GetMemoryMaxEntries(),
		cnfg.Logging.GetMemoryLevel(),
		cnfg.Logging.GetMemoryAttrsFormat())

	logger := slog.New(logging.NewMultiHandler(consoleHandler, memLog))
	slog.SetDefault(logger)

	if cnfg.Entsoe.Token == "" {
		panic("no transparency platform token configured")
	}

	client := entsoe.NewClient(cnfg.Entsoe.GetBaseUrl(), cnfg.Entsoe.Token, logger.With("module", "entsoe"))
	datasetCache := cache.New(time.Duration(cnfg.Cache.GetTtlMinutes()) * time.Minute)
	svc := market.NewService(logger.With("module", "market"), client, datasetCache)

	tasks := task.NewTasks(svc, datasetCache, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		tasks.Run()
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server := www.StartServer(svc, memLog, cnfg.Api, cnfg.Gui.GetDefaultCountry())
	svc.OnRefresh = server.NotifyRefresh
	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
