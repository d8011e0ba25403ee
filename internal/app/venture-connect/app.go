package ventureconnect

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/venture-connect/internal/cache"
	"github.com/magabrotheeeer/venture-connect/internal/config"
	"github.com/magabrotheeeer/venture-connect/internal/lib/jwt"
	"github.com/magabrotheeeer/venture-connect/internal/migrations"
	"github.com/magabrotheeeer/venture-connect/internal/paymentprovider"
	"github.com/magabrotheeeer/venture-connect/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/venture-connect/internal/services/auth"
	connectionservice "github.com/magabrotheeeer/venture-connect/internal/services/connection"
	interactionservice "github.com/magabrotheeeer/venture-connect/internal/services/interaction"
	matchservice "github.com/magabrotheeeer/venture-connect/internal/services/match"
	notifyservice "github.com/magabrotheeeer/venture-connect/internal/services/notify"
	nudgeservice "github.com/magabrotheeeer/venture-connect/internal/services/nudge"
	userservice "github.com/magabrotheeeer/venture-connect/internal/services/user"
	"github.com/magabrotheeeer/venture-connect/internal/storage/repository"
)

// App собирает HTTP-сервер платформы и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует хранилище, кеш, очередь уведомлений и все сервисы,
// после чего настраивает HTTP-сервер с маршрутами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.ShopID, cfg.PaymentSecret)

	notifyService := notifyservice.New(db, db, &notifyservice.ChannelPublisher{Ch: ch}, logger)
	authService := authservice.New(db, jwtMaker)
	userService := userservice.New(db, cacheRedis, logger)
	interactionService := interactionservice.New(db, db, notifyService, logger)
	nudgeService := nudgeservice.New(db, db, providerClient, notifyService, logger)
	connectionService := connectionservice.New(db, db, notifyService, logger)
	matchService := matchservice.New(db, db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, &Services{
		Auth:        authService,
		User:        userService,
		Interaction: interactionService,
		Nudge:       nudgeService,
		Connection:  connectionService,
		Match:       matchService,
		Notify:      notifyService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		a.ch.Close()
		a.conn.Close()
		a.db.DB.Close()
		return err
	}
}
