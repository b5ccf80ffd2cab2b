// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:14:05 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/vestigo/internal/app"
)

// runServe starts the task dispatcher and the profile refresh scheduler, then
// blocks until interrupted.
func runServe() {
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if !config.Scheduler.Enabled {
		logger.Warn().Msg("Scheduler is disabled in configuration; enable scheduler.enabled to refresh profiles")
	}

	if err := application.SchedulerService.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go application.Dispatcher.Run(ctx)

	logger.Info().Msg("Dispatcher and scheduler running - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received, shutting down")
}
