package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/illancapan/uno-test-full-stack/internal/config"
	"github.com/illancapan/uno-test-full-stack/internal/repository"
	"github.com/illancapan/uno-test-full-stack/internal/repository/storage"
	"github.com/illancapan/uno-test-full-stack/internal/service"
	"github.com/illancapan/uno-test-full-stack/internal/transport/events"
	"github.com/illancapan/uno-test-full-stack/internal/usecase"
	"github.com/illancapan/uno-test-full-stack/transport/rest"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

var (
	ErrAddrNotFound        = errors.New("redis address string is empty")
	ErrUnknownSessionStore = errors.New("unknown session store")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo, closeSessions, err := newSessionRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeSessions()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	publisher, err := newResultPublisher(logger, conf)
	if err != nil {
		return err
	}
	defer publisher.Close()

	deckService := service.NewDeckService(newImageSource(conf))
	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)
	gameUseCase := usecase.NewGameUseCase(logger, deckService, sessionRepo, resultRepo, publisher, conf.DeckPairs)

	server := rest.NewServer(logger, conf.HTTPPort, conf.CORSOrigin, gameUseCase)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

// newSessionRepository returns the configured session store and a func releasing it.
func newSessionRepository(
	ctx context.Context,
	logger *slog.Logger,
	conf *config.Config,
) (repository.SessionRepository, func(), error) {
	log := logger.With("component", "app")

	switch conf.SessionStore {
	case config.SessionStoreMemory:
		sessions := repository.NewMemorySessionRepository(conf.SessionTTL, conf.SessionMax)
		go sessions.RunJanitor(ctx, logger, janitorInterval)

		log.Info("Using in-memory session store", "ttl", conf.SessionTTL, "max", conf.SessionMax)

		return sessions, func() {}, nil
	case config.SessionStoreRedis, "":
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("Using redis session store", "addr", redisAddrString, "ttl", conf.SessionTTL)

		closeFn := func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewSessionRepository(redisStorage.Connection, conf.SessionTTL), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSessionStore, conf.SessionStore)
	}
}

func newImageSource(conf *config.Config) service.ImageSource {
	if conf.ImageAPI.URL == "" {
		return service.NewStaticImageSource(service.DefaultImages())
	}

	return service.NewHTTPImageSource(conf.ImageAPI.URL, conf.ImageAPI.Timeout)
}

func newResultPublisher(logger *slog.Logger, conf *config.Config) (events.ResultPublisher, error) {
	if conf.NATS.URL == "" {
		return events.NewNopPublisher(), nil
	}

	publisher, err := events.Connect(logger, conf.NATS.URL, conf.NATS.Subject)
	if err != nil {
		return nil, fmt.Errorf("could not connect to nats: %w", err)
	}

	return publisher, nil
}
