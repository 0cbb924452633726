package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/noah-isme/settlement-api/api/swagger"
	"github.com/noah-isme/settlement-api/internal/handler"
	"github.com/noah-isme/settlement-api/internal/repository"
	"github.com/noah-isme/settlement-api/internal/router"
	"github.com/noah-isme/settlement-api/internal/service"
	"github.com/noah-isme/settlement-api/pkg/cache"
	"github.com/noah-isme/settlement-api/pkg/config"
	"github.com/noah-isme/settlement-api/pkg/database"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logr, err := bootstrap()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck

			if port > 0 {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg, logr)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override the PORT setting")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, logr *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logr.Info("database schema applied")
	}

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, request cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)

	validate := service.NewValidator()
	requestRepo := repository.NewRequestRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	userRepo := repository.NewUserRepository(db)

	requestSvc := service.NewRequestService(requestRepo, cacheSvc, metrics, cfg.Pagination, validate, logr)
	settlementSvc := service.NewSettlementService(settlementRepo, requestRepo, userRepo, metrics, cfg.Pagination, validate, logr)

	engine := router.New(cfg, logr, metrics, router.Handlers{
		Requests:    handler.NewRequestHandler(requestSvc),
		Settlements: handler.NewSettlementHandler(settlementSvc),
		Metrics:     handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logr.Info("server exited")
	return nil
}
