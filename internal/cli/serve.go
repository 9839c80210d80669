package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/campus-booking/internal/api/http"
	"github.com/spec-kit/campus-booking/internal/api/http/handlers"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/observability"
	"github.com/spec-kit/campus-booking/internal/persistence"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/service"
	"github.com/spec-kit/campus-booking/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			return err
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	resourceService := service.NewResourceService(service.ResourceDependencies{
		ResourceRepo: resourceRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	bookingService := service.NewBookingService(*cfg, service.BookingDependencies{
		BookingRepo:  bookingRepo,
		UserRepo:     userRepo,
		ResourceRepo: resourceRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	statsService := service.NewStatsService(
		statsRepo,
		service.NewRedisStatsCache(redis.Client, cfg.Stats.CacheTTL()),
		logger,
	)

	worker.StartSubscribers(service.NewAuditSubscriber(dispatcher, statsService, logger))

	var redisPinger handlers.Pinger
	if redis.Client != nil {
		redisPinger = redis
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger),
		Session:   handlers.NewSessionHandler(authService),
		Users:     handlers.NewUsersHandler(userService),
		Resources: handlers.NewResourcesHandler(resourceService),
		Bookings:  handlers.NewBookingsHandler(bookingService),
		Admin:     handlers.NewAdminHandler(statsService),
		Metrics:   metrics,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}
