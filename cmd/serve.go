package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/config"
	"github.com/linguaplay/scoring-service/internal/events"
	"github.com/linguaplay/scoring-service/internal/handlers"
	"github.com/linguaplay/scoring-service/internal/jobs"
	"github.com/linguaplay/scoring-service/internal/repositories/postgres"
	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
	"github.com/linguaplay/scoring-service/internal/validator"
	"github.com/linguaplay/scoring-service/pkg"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		return runServer(cfg)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
}

// coordination groups the cache, lock and ranking backends.
type coordination struct {
	cache       cache.CacheService
	locker      cache.Locker
	leaderboard cache.Leaderboard
	close       func()
}

// newCoordination uses redis when reachable and in-process backends otherwise.
func newCoordination(cfg *config.Config, logger *slog.Logger) coordination {
	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache, lock and leaderboard", "error", err)
		return coordination{
			cache:       cache.NewMemoryCache(),
			locker:      cache.NewMemoryLocker(),
			leaderboard: cache.NewMemoryLeaderboard(),
			close:       func() {},
		}
	}

	logger.Info("Connected to redis")
	return coordination{
		cache:       cache.NewRedisCache(client, logger),
		locker:      cache.NewRedisLocker(client),
		leaderboard: cache.NewRedisLeaderboard(client, cfg.LeaderboardKey),
		close: func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err)
			}
		},
	}
}

func runServer(cfg *config.Config) error {
	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}

	coord := newCoordination(cfg, slogger)
	defer coord.close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	if local, ok := publisher.(*events.InMemoryEventPublisher); ok {
		messages, err := local.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribe to events: %w", err)
		}
		go events.Consume(ctx, messages, events.LogHandler(slogger), slogger)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	serviceManager := services.NewServiceManager(services.Dependencies{
		ExerciseRepo: postgres.NewExercisePostgreSQL(db),
		ProgressRepo: postgres.NewProgressPostgreSQL(db),
		AttemptRepo:  postgres.NewAttemptPostgreSQL(db),
		Transactor:   postgres.NewTransactor(db),
		Cache:        coord.cache,
		Locker:       coord.locker,
		Leaderboard:  coord.leaderboard,
		Publisher:    publisher,
		Engine:       engine,
		Validator:    validator.New(),
		CacheTTL:     cfg.CacheTTL,
		LockTTL:      cfg.LockTTL,
	}, slogger)

	scheduler := jobs.New(serviceManager.Progress(), cfg.LeaderboardRebuildAt, slogger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()
	go scheduler.RebuildLeaderboard()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.ContextLogger(logger), utils.LoggerMiddleware(logger))

	if cfg.AuthBypassed() {
		logger.Warn("Authentication bypassed, trusting the X-User-ID header")
	}
	auth := handlers.AuthMiddleware(handlers.NewCasdoorVerifier(cfg.Auth), cfg.AuthBypassed(), logger)
	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router, auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment,
			"leveling", engine.Leveling().Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
