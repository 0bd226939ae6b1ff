package tasks

import (
	"context"

	"github.com/lysyi3m/news-pulse/app/feed"
)

// SourceFetcher downloads feeds and article pages. Implemented by
// feed.Fetcher.
type SourceFetcher interface {
	Fetch(ctx context.Context, source feed.Source) ([]feed.RawEntry, error)
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// IngestionRunner runs one complete ingestion batch. Used by the batch
// entry point and by the scheduled runs of the server.
// Example usage:
//
//	runner := NewIngestion(registry, orchestrator, gateway, lookbackDays)
//	summary, err := runner.Run(ctx)
type IngestionRunner interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// FeedInvalidator drops rendered feeds that a finished run made stale.
// Implemented by cache.FeedCache.
type FeedInvalidator interface {
	InvalidateFeeds(ctx context.Context) error
}
