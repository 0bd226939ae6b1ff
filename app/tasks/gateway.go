package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/news-pulse/app/database"
	"github.com/lysyi3m/news-pulse/app/feed"
)

const (
	progressEvery        = 50
	detailedFailureLimit = 5
	failureTitleRunes    = 50
)

type SaveFailure struct {
	Index int
	Title string
	URL   string
	Err   error
}

type SaveReport struct {
	Saved      int
	Duplicates int
	Failures   []SaveFailure
}

func (r SaveReport) ErrorCount() int {
	return len(r.Failures)
}

// Gateway writes articles one by one. A failing record is counted and the
// loop moves on; nothing spans the batch.
type Gateway struct {
	writer database.ArticleWriter
}

func NewGateway(writer database.ArticleWriter) *Gateway {
	return &Gateway{writer: writer}
}

func (g *Gateway) Save(ctx context.Context, articles []feed.Article) SaveReport {
	var report SaveReport

	slog.Info("Saving articles", "count", len(articles))

	for i, article := range articles {
		inserted, err := g.writer.InsertArticle(ctx, g.record(article))
		if err != nil {
			report.Failures = append(report.Failures, SaveFailure{
				Index: i,
				Title: article.Title,
				URL:   article.URL,
				Err:   err,
			})
			if len(report.Failures) <= detailedFailureLimit {
				slog.Error("Failed to save article",
					"error_number", len(report.Failures),
					"title", truncateRunes(article.Title, failureTitleRunes),
					"source", article.Source,
					"error", err)
			}
			continue
		}

		if !inserted {
			report.Duplicates++
			continue
		}

		report.Saved++
		if report.Saved%progressEvery == 0 {
			slog.Info("Saving progress", "saved", report.Saved, "total", len(articles))
		}
	}

	slog.Info("Articles saved", "saved", report.Saved, "duplicates", report.Duplicates, "failed", report.ErrorCount())

	if report.ErrorCount() > 0 {
		slog.Warn("Some articles failed to save. Common issues: wrong DATABASE_URL credentials, missing table permissions, schema out of date (check migrations)",
			"failed", report.ErrorCount())
	}

	return report
}

func (g *Gateway) record(article feed.Article) database.ArticleRecord {
	return database.ArticleRecord{
		ID:                 uuid.NewString(),
		Source:             article.Source,
		Title:              article.Title,
		Description:        article.Description,
		URL:                article.URL,
		PublishedDate:      article.PublishedDate,
		PublishedTime:      article.PublishedTime,
		PublishedAt:        article.PublishedAt.In(time.UTC),
		Sentiment:          string(article.Sentiment.Label),
		SentimentScore:     article.Sentiment.Score,
		SentimentIndicator: article.Sentiment.Indicator,
		Topic:              article.Topic,
		DedupKey:           article.DedupKey(),
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
