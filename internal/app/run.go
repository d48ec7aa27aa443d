package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context) error

// Run executes run under a signal-aware context and maps the outcome to a
// process exit code.
func Run(serviceName string, logger zerolog.Logger, run Runner) int {
	logger.Info().Str("service", serviceName).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info().Str("service", serviceName).Msg("shutting down")
		// grace period for the runner to finish its own shutdown
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error().Err(err).Str("service", serviceName).Msg("shutdown error")
				return 1
			}
		case <-time.After(15 * time.Second):
			logger.Warn().Str("service", serviceName).Msg("shutdown timed out")
		}
		return 0
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Str("service", serviceName).Msg("failed")
			return 1
		}
		logger.Info().Str("service", serviceName).Msg("stopped")
		return 0
	}
}
