package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"mg_dashboard/internal/config"
	"mg_dashboard/internal/db"
	httpServer "mg_dashboard/internal/http"
	"mg_dashboard/internal/http/middleware"
	"mg_dashboard/internal/logger"
	"mg_dashboard/internal/migrations"
	"mg_dashboard/internal/repository"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if cfg.AutoMigrate {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
		logger.Info("migrations applied")
	}

	dbPool := db.Connect(cfg.DatabaseURL, db.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxConnIdle,
	})
	tasks := repository.NewTaskRepositoryWithTimeouts(dbPool, cfg.DBAcquireTimeout, cfg.DBQueryTimeout)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpServer.NewRouter(tasks, httpServer.OptionsFromConfig(cfg))

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.AppEnv, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	// http-server drains in-flight requests before the pool goes away
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("shutting down server")
				return srv.Shutdown(ctx)
			},
			"redis": func(ctx context.Context) error {
				return middleware.CloseRedisRateLimiter()
			},
		},
	)

	exitCode := <-wait
	dbPool.Close()
	logger.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}
