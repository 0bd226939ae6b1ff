package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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

	slog.Info("Starting News Pulse ingestion",
		"version", appCfg.Version,
		"timezone", appCfg.Timezone,
		"workers", appCfg.WorkerCount,
		"lookback_days", appCfg.LookbackDays,
		"since", appCfg.Since)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := feed.LoadRegistry(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load feed registry", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(ctx, appCfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		db.Close()
		os.Exit(1)
	}
	slog.Info("Database ready", "dialect", db.Dialect, "schema_version", version, "dirty", dirty)

	ingestion := tasks.NewIngestionFromConfig(appCfg, registry, database.NewArticleRepository(db))

	summary, err := ingestion.Run(ctx)
	if err != nil {
		slog.Error("Ingestion run failed", "error", err)
		db.Close()
		os.Exit(1)
	}

	if err := summary.Write(os.Stdout); err != nil {
		slog.Error("Failed to write run summary", "error", err)
	}
}
