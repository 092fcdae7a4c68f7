package contactsapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/maksym-sk21/hw14WEB/internal/cache"
	"github.com/maksym-sk21/hw14WEB/internal/config"
	"github.com/maksym-sk21/hw14WEB/internal/lib/jwt"
	"github.com/maksym-sk21/hw14WEB/internal/migrations"
	"github.com/maksym-sk21/hw14WEB/internal/rabbitmq"
	"github.com/maksym-sk21/hw14WEB/internal/ratelimit"
	authservice "github.com/maksym-sk21/hw14WEB/internal/services/auth"
	contactservice "github.com/maksym-sk21/hw14WEB/internal/services/contacts"
	"github.com/maksym-sk21/hw14WEB/internal/storage/repository"
)

// App собирает зависимости HTTP API: базу, кэш, очередь и сам сервер.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New инициализирует хранилище, прогоняет миграции, подключает Redis и
// RabbitMQ и собирает маршруты приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		rabbitConn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL, cfg.EmailTTL)
	notifier := rabbitmq.NewConfirmationNotifier(rabbitCh)

	authService := authservice.NewAuthService(db, jwtMaker, notifier, logger)
	contactService := contactservice.NewContactService(db, cacheRedis, logger)
	limiter := ratelimit.New(cacheRedis.Db, cfg.Requests, cfg.Window)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, contactService, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает HTTP сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.rabbitCh.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbit channel", slog.Any("err", closeErr))
		}
		if closeErr := a.rabbitConn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbit connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
