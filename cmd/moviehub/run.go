package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/config"
	"github.com/diwarasiga/moviehub/internal/storage/postgres"
	userapi "github.com/diwarasiga/moviehub/internal/user/httpapi"
	userrepo "github.com/diwarasiga/moviehub/internal/user/repository"
	userservice "github.com/diwarasiga/moviehub/internal/user/service"
	videoapi "github.com/diwarasiga/moviehub/internal/video/httpapi"
	"github.com/diwarasiga/moviehub/internal/video/kafka"
	videorepo "github.com/diwarasiga/moviehub/internal/video/repository"
	videoservice "github.com/diwarasiga/moviehub/internal/video/service"
	"github.com/diwarasiga/moviehub/internal/video/storage"
)

func run(ctx context.Context, logger zerolog.Logger) error {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is empty")
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload storage: %w", err)
	}
	logger.Info().Str("upload_dir", store.Root()).Msg("upload root ready")

	var videos videorepo.VideoRepository = videorepo.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		videos = postgres.NewVideoRepo(db)
		logger.Info().Msg("using postgres registry")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	videoSvc := videoservice.New(videos, store, cfg.MaxUploadBytes, logger)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer producer.Close()
		videoSvc = videoSvc.WithPublisher(producer)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("event publishing enabled")
	}

	userSvc := userservice.New(userrepo.NewMemoryRepository(), tokens)
	if cfg.SeedEmail != "" && cfg.SeedPassword != "" {
		if err := userSvc.Seed(ctx, cfg.SeedUsername, cfg.SeedEmail, cfg.SeedPassword); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	mux := http.NewServeMux()
	userapi.New(userSvc, tokens, cfg.MaxJSONBytes).Register(mux)
	videoapi.New(videoSvc, store, tokens, logger).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           videoapi.AccessLog(logger, videoapi.CORS(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	}
}
