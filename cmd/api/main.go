package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lab-rental-service/internal/api/http"
	"github.com/spec-kit/lab-rental-service/internal/api/http/handlers"
	"github.com/spec-kit/lab-rental-service/internal/auth"
	"github.com/spec-kit/lab-rental-service/internal/config"
	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/events"
	"github.com/spec-kit/lab-rental-service/internal/observability"
	"github.com/spec-kit/lab-rental-service/internal/persistence"
	"github.com/spec-kit/lab-rental-service/internal/repository"
	"github.com/spec-kit/lab-rental-service/internal/service"
	"github.com/spec-kit/lab-rental-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	rentalRepo := repository.NewRentalRepository(pool)

	if err := seedAdminUser(ctx, cfg, userRepo, logger); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, userRepo)
	rentalService := service.NewRentalService(rentalRepo, userRepo, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Rentals:        handlers.NewRentalsHandler(rentalService, userRepo),
		AuthMiddleware: authMiddleware,
		Users:          userRepo,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// seedAdminUser provisions the bootstrap admin account when ADMIN_USERNAME
// and ADMIN_PASSWORD are set and no such account exists. The user store has
// no registration endpoint; accounts are provisioned out of band.
func seedAdminUser(ctx context.Context, cfg *config.Config, users repository.UserRepository, logger *zap.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	if _, err := users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if err != pgx.ErrNoRows {
		return err
	}

	hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     username,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("seeded admin user", zap.String("username", username), zap.Int64("id", admin.ID))
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
