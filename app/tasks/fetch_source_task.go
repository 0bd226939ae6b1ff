package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-pulse/app/feed"
)

// SourceResult is what one source contributed to a run.
type SourceResult struct {
	Source   string
	Articles []feed.Article // feed order
	Rejected map[feed.RejectReason]int
	Err      error
	Duration time.Duration
}

type FetchSourceTask struct {
	Task
	Source           feed.Source
	cutoff           time.Time
	fetcher          SourceFetcher
	normalizer       *feed.Normalizer
	classifier       *feed.Classifier
	contentExtractor *feed.ContentExtractor
	result           SourceResult
}

func NewFetchSourceTask(source feed.Source, cutoff time.Time, fetcher SourceFetcher, normalizer *feed.Normalizer, classifier *feed.Classifier, contentExtractor *feed.ContentExtractor) *FetchSourceTask {
	return &FetchSourceTask{
		Task:             NewTask(TaskTypeFetchSource, source.Name, source.GetTimeout()),
		Source:           source,
		cutoff:           cutoff,
		fetcher:          fetcher,
		normalizer:       normalizer,
		classifier:       classifier,
		contentExtractor: contentExtractor,
		result: SourceResult{
			Source:   source.Name,
			Rejected: make(map[feed.RejectReason]int),
		},
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := t.fetcher.Fetch(ctx, t.Source)
	if err != nil {
		return fmt.Errorf("failed to fetch source %s: %w", t.SourceName, err)
	}

	for _, raw := range entries {
		article, err := t.normalizer.Run(raw, t.Source, t.cutoff)
		if err != nil {
			var reason feed.RejectReason
			if errors.As(err, &reason) {
				t.result.Rejected[reason]++
			}
			slog.Debug("Entry rejected", "source", t.SourceName, "title", raw.Title, "reason", err)
			continue
		}

		if article.Description == "" && t.Source.ExtractContent && t.contentExtractor != nil {
			article.Description = t.extractContent(ctx, article.URL)
		}

		summary := raw.Summary
		if summary == "" {
			summary = article.Description
		}
		article.Sentiment = t.classifier.Run(article.Title, summary)

		t.result.Articles = append(t.result.Articles, article)
	}

	slog.Info("Task completed",
		"type", "FetchSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(entries),
		"articles", len(t.result.Articles),
		"rejected", len(entries)-len(t.result.Articles))

	return nil
}

// Result is only safe to read after Execute has returned.
func (t *FetchSourceTask) Result() SourceResult {
	return t.result
}

func (t *FetchSourceTask) extractContent(ctx context.Context, url string) string {
	data, err := t.fetcher.FetchPage(ctx, url)
	if err != nil {
		slog.Debug("Failed to fetch article page", "source", t.SourceName, "url", url, "error", err)
		return ""
	}

	content, err := t.contentExtractor.Run(data, url)
	if err != nil {
		slog.Debug("Failed to extract content", "source", t.SourceName, "url", url, "error", err)
		return ""
	}

	return content
}
