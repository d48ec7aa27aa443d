package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/diwarasiga/moviehub/internal/app"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	code := app.Run("moviehub", logger, func(ctx context.Context) error {
		return run(ctx, logger)
	})
	os.Exit(code)
}
