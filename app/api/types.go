package api

import (
	"context"

	"github.com/lysyi3m/news-pulse/app/cache"
	"github.com/lysyi3m/news-pulse/app/database"
	"github.com/lysyi3m/news-pulse/app/feed"
	"github.com/lysyi3m/news-pulse/app/tasks"
)

type GeneratorInterface interface {
	Run(source feed.Source, articles []database.Article) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type FeedCacheInterface interface {
	GetFeed(ctx context.Context, source string) (string, bool, error)
	SetFeed(ctx context.Context, source, rss string) error
	InvalidateFeeds(ctx context.Context) error
}

var _ FeedCacheInterface = (*cache.FeedCache)(nil)

type Handler struct {
	registry    *feed.Registry
	articleRepo database.ArticleReader
	generator   GeneratorInterface
	runner      tasks.IngestionRunner
	feedCache   FeedCacheInterface
}
