package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

var articleColumns = []string{
	"id", "source", "title", "description", "url",
	"CAST(published_date AS TEXT)", "CAST(published_time AS TEXT)", "published_at",
	"sentiment", "sentiment_score", "sentiment_indicator", "topic", "created_at",
}

var _ ArticleRepository = (*SQLArticleRepository)(nil)

// SQLArticleRepository stores articles in sqlite or Postgres
type SQLArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

func (r *SQLArticleRepository) InsertArticle(ctx context.Context, record ArticleRecord) (bool, error) {
	query, args, err := r.db.builder().
		Insert("articles").
		Columns(
			"id", "source", "title", "description", "url",
			"published_date", "published_time", "published_at",
			"sentiment", "sentiment_score", "sentiment_indicator",
			"topic", "dedup_key", "created_at",
		).
		Values(
			record.ID, record.Source, record.Title, record.Description, record.URL,
			record.PublishedDate, record.PublishedTime, record.PublishedAt.UTC(),
			record.Sentiment, record.SentimentScore, record.SentimentIndicator,
			record.Topic, record.DedupKey, time.Now().UTC(),
		).
		Suffix("ON CONFLICT (dedup_key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// ListArticles returns the newest articles matching every non-empty filter
func (r *SQLArticleRepository) ListArticles(ctx context.Context, q ArticleQuery) ([]Article, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	where := sq.Eq{}
	if q.Source != "" {
		where["source"] = q.Source
	}
	if q.Sentiment != "" {
		where["sentiment"] = q.Sentiment
	}
	if q.Topic != "" {
		where["topic"] = q.Topic
	}
	if q.Date != "" {
		where["CAST(published_date AS TEXT)"] = q.Date
	}

	query, args, err := r.db.builder().
		Select(articleColumns...).
		From("articles").
		Where(where).
		OrderBy("published_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(
			&a.ID, &a.Source, &a.Title, &a.Description, &a.URL,
			&a.PublishedDate, &a.PublishedTime, &a.PublishedAt,
			&a.Sentiment, &a.SentimentScore, &a.SentimentIndicator, &a.Topic, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *SQLArticleRepository) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetSentimentStats counts articles per source and sentiment
func (r *SQLArticleRepository) GetSentimentStats(ctx context.Context) ([]SentimentCount, error) {
	query, args, err := r.db.builder().
		Select("source", "sentiment", "COUNT(*)").
		From("articles").
		GroupBy("source", "sentiment").
		OrderBy("source", "sentiment").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment stats: %w", err)
	}
	defer rows.Close()

	var stats []SentimentCount
	for rows.Next() {
		var s SentimentCount
		if err := rows.Scan(&s.Source, &s.Sentiment, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}
