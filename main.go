package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/carson-networks/ledger-sync/api"
	"github.com/carson-networks/ledger-sync/internal/app"
	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/logging"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("ledger-sync starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Warn("logging.SetLevel")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledgerApp, err := app.New(ctx, envConfig, logger, app.Options{})
	if err != nil {
		logger.WithError(err).Fatal("app.New")
		return
	}
	ledgerApp.Start()
	defer func() {
		if err := ledgerApp.Close(); err != nil {
			logger.WithError(err).Error("app.Close")
		}
	}()

	httpRest := api.Rest{
		Logger: logger,
		Port:   envConfig.HTTPPort,
		App:    ledgerApp,
	}
	httpRest.Serve(ctx)

	logger.Info("ledger-sync stopped")
}
