package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/api"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/pkg/factory"
	"blogapi/pkg/logger"
	"blogapi/pkg/tracing"
)

func main() {
	ctx := context.Background()

	appFactory, err := factory.NewFactory(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start: %v\n", err)
		os.Exit(1)
	}

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()

	shutdownTracing := tracing.Init()

	log.Info("Starting blogapi", logger.Fields{
		"env":     cfg.AppEnv,
		"storage": cfg.Database.Driver,
		"auth":    cfg.Auth.Enabled,
	})

	if cfg.Database.Driver == config.StorageMongo {
		migrationService := database.NewMigrationService(appFactory.GetConnectionManager(), log)
		if err := migrationService.RunMigrations(ctx); err != nil {
			log.Fatal("Migrations could not be applied", logger.Fields{"error": err.Error()})
		}
	}

	handler := api.NewRouter(api.RouterConfig{
		Logger:          log,
		UserService:     appFactory.GetUserService(),
		CategoryService: appFactory.GetCategoryService(),
		BlogService:     appFactory.GetBlogService(),
		AuditLogService: appFactory.GetAuditLogService(),
		Health:          appFactory.GetHealthHandler(),
		Tokens:          appFactory.GetTokenManager(),
		RateLimiter:     appFactory.GetRateLimiter(),
		Timeout:         cfg.Server.Timeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info("HTTP server listening", logger.Fields{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", logger.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down", logger.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Fields{"error": err.Error()})
	}
	if err := appFactory.Close(shutdownCtx); err != nil {
		log.Error("Closing connections failed", logger.Fields{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", logger.Fields{"error": err.Error()})
	}

	log.Info("Server stopped", logger.Fields{})
}
