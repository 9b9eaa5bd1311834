package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/shelter-kit/shelter-service/internal/api/http"
	"github.com/shelter-kit/shelter-service/internal/api/http/handlers"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/config"
	"github.com/shelter-kit/shelter-service/internal/events"
	"github.com/shelter-kit/shelter-service/internal/observability"
	"github.com/shelter-kit/shelter-service/internal/persistence"
	"github.com/shelter-kit/shelter-service/internal/repository"
	"github.com/shelter-kit/shelter-service/internal/service"
	"github.com/shelter-kit/shelter-service/internal/worker"
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

	tokenManager, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	var denylist auth.TokenDenylist
	if dl := persistence.NewTokenDenylist(redis); dl != nil {
		denylist = dl
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	animalRepo := repository.NewAnimalRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokenManager,
		Denylist:   denylist,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher)
	animalService := service.NewAnimalService(animalRepo, userRepo, dispatcher)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, denylist)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, authMiddleware),
		Users:          handlers.NewUsersHandler(userService),
		Animals:        handlers.NewAnimalsHandler(animalService),
		Posts:          handlers.NewPostsHandler(postService),
		Comments:       handlers.NewCommentsHandler(commentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
