package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/news-pulse/app/api"
	"github.com/lysyi3m/news-pulse/app/cache"
	"github.com/lysyi3m/news-pulse/app/cfg"
	"github.com/lysyi3m/news-pulse/app/database"
	"github.com/lysyi3m/news-pulse/app/feed"
	"github.com/lysyi3m/news-pulse/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	slog.SetDefault(appCfg.NewLogger())

	slog.Info("Starting News Pulse server", "version", appCfg.Version, "timezone", appCfg.Timezone)

	registry, err := feed.LoadRegistry(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load feed registry", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(context.Background(), appCfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, _, err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		db.Close()
		os.Exit(1)
	}

	articleRepo := database.NewArticleRepository(db)
	ingestion := tasks.NewIngestionFromConfig(appCfg, registry, articleRepo)

	var feedCache api.FeedCacheInterface
	if appCfg.RedisAddr != "" && appCfg.FeedCacheTTL > 0 {
		redisCache, err := cache.NewFeedCache(context.Background(), appCfg.RedisAddr,
			time.Duration(appCfg.FeedCacheTTL)*time.Second)
		if err != nil {
			slog.Warn("Feed cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			feedCache = redisCache
		}
	}

	if appCfg.Schedule != "" {
		cronRunner, err := tasks.NewCronRunner(appCfg.Schedule, ingestion, feedCache, os.Stdout)
		if err != nil {
			slog.Error("Failed to configure scheduled ingestion", "error", err)
			db.Close()
			os.Exit(1)
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	generator := feed.NewGenerator(appCfg.PublicBaseURL(), appCfg.Version)
	apiHandler := api.NewHandler(registry, articleRepo, generator, ingestion, feedCache)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.PublicBaseURL())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
