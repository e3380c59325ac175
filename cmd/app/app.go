package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/predictifylabs/predictify-api/internal/api"
	"github.com/predictifylabs/predictify-api/internal/config"
	"github.com/predictifylabs/predictify-api/internal/db"
	"github.com/predictifylabs/predictify-api/internal/logger"
	"github.com/predictifylabs/predictify-api/internal/pkg/rabbitmq"
	"github.com/predictifylabs/predictify-api/internal/service"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	config.Watch(configPath)

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	publisher, closePublisher, err := newPublisher(conf.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to initialize publisher -> %w", err)
	}
	defer closePublisher()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := api.NewServer(conf, postgresDB, publisher)
	go s.Feed.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// newPublisher falls back to a no-op publisher when messaging is disabled.
func newPublisher(conf *config.RabbitMQConfig) (service.RegistrationPublisher, func(), error) {
	if conf == nil || !conf.Enabled {
		zap.L().Info("rabbitmq disabled, registration messages will not be published")
		return rabbitmq.NoopPublisher{}, func() {}, nil
	}

	publisher, err := rabbitmq.NewPublisher(conf)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq.NewPublisher -> %w", err)
	}

	return publisher, publisher.Close, nil
}
