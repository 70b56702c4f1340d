package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-planner-api/internal/auth"
	"github.com/BuzzLyutic/task-planner-api/internal/config"
	"github.com/BuzzLyutic/task-planner-api/internal/database"
	"github.com/BuzzLyutic/task-planner-api/internal/handler"
	"github.com/BuzzLyutic/task-planner-api/internal/repo"
	"github.com/BuzzLyutic/task-planner-api/internal/service"
	"github.com/BuzzLyutic/task-planner-api/internal/worker"
)

func newServeCmd() *cobra.Command {
	var port, storage string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Загрузка конфигурации
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if storage != "" {
				cfg.Storage = storage
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&storage, "storage", "", "memory or postgres (overrides STORAGE)")
	return cmd
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serve(ctx context.Context, cfg config.Config) error {
	// Подключаем логгер
	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	hasher, err := auth.NewHasher(cfg.PasswordHashing)
	if err != nil {
		return err
	}

	var (
		taskRepo repo.TaskRepository = repo.NewMemoryTaskRepo()
		userRepo repo.UserRepository = repo.NewMemoryUserRepo()
		keys     repo.KeyStore
	)

	if cfg.Storage == config.StoragePostgres {
		pool, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Successfully connected to the Database!")

		taskRepo = repo.NewPgTaskRepo(pool)
		userRepo = repo.NewPgUserRepo(pool)
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opt.DialTimeout = 5 * time.Second

		client := redis.NewClient(opt)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		keys = repo.NewRedisKeyStore(client) // Redis сам удаляет ключи по TTL
		logger.Info("Idempotency keys stored in Redis")
	} else {
		memoryKeys := repo.NewMemoryKeyStore()
		janitor := worker.NewJanitor(memoryKeys, logger, time.Minute)
		janitor.Start(ctx)
		defer janitor.Stop()
		keys = memoryKeys
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, hasher), logger)
	taskHandler := handler.NewTaskHandler(service.NewTaskService(taskRepo, keys, cfg.IdempotencyTTL, loc), logger)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(authHandler, taskHandler, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
		return err
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped successfully!")
	return nil
}
