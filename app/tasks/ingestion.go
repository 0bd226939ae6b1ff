package tasks

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/news-pulse/app/cfg"
	"github.com/lysyi3m/news-pulse/app/database"
	"github.com/lysyi3m/news-pulse/app/feed"
)

var ErrRunInProgress = errors.New("an ingestion run is already in progress")

var _ IngestionRunner = (*Ingestion)(nil)

// Ingestion ties one batch together: registry, orchestrator, gateway.
// At most one run is active at a time.
type Ingestion struct {
	registry     *feed.Registry
	orchestrator *Orchestrator
	gateway      *Gateway
	lookbackDays func(now time.Time) int
	mu           sync.Mutex
}

func NewIngestion(registry *feed.Registry, orchestrator *Orchestrator, gateway *Gateway, lookbackDays func(now time.Time) int) *Ingestion {
	return &Ingestion{
		registry:     registry,
		orchestrator: orchestrator,
		gateway:      gateway,
		lookbackDays: lookbackDays,
	}
}

// NewIngestionFromConfig builds the full pipeline. Per-source deadlines
// bound every request, so the HTTP client carries no timeout of its own.
func NewIngestionFromConfig(c *cfg.Cfg, registry *feed.Registry, writer database.ArticleWriter) *Ingestion {
	fetcher := feed.NewFetcher(&http.Client{}, feed.NewParser(), c.UserAgent)

	orchestrator := NewOrchestrator(fetcher, feed.NewNormalizer(nil), feed.NewClassifier(),
		feed.NewContentExtractor(), c.WorkerCount)

	return NewIngestion(registry, orchestrator, NewGateway(writer), c.EffectiveLookbackDays)
}

func (i *Ingestion) Run(ctx context.Context) (*RunSummary, error) {
	if !i.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer i.mu.Unlock()

	sources := i.registry.EnabledSources()
	if len(sources) == 0 {
		return nil, feed.ErrEmptyRegistry
	}

	articles, summary := i.orchestrator.Run(ctx, sources, i.lookbackDays(time.Now()))

	report := i.gateway.Save(ctx, articles)
	summary.ApplySaveReport(report)
	summary.Finish(time.Now())

	return summary, nil
}
