package database

import (
	"context"
)

type ArticleWriter interface {
	// InsertArticle reports false without error when an article with the
	// same dedup key is already stored.
	InsertArticle(ctx context.Context, record ArticleRecord) (bool, error)
}

type ArticleReader interface {
	ListArticles(ctx context.Context, query ArticleQuery) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)
	GetSentimentStats(ctx context.Context) ([]SentimentCount, error)
}

type ArticleRepository interface {
	ArticleWriter
	ArticleReader
}
