package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/news-pulse/app/feed"
)

// Orchestrator fans sources out to a bounded worker pool and merges what
// they return. Only the goroutine calling Run appends to the article slice.
type Orchestrator struct {
	fetcher          SourceFetcher
	normalizer       *feed.Normalizer
	classifier       *feed.Classifier
	contentExtractor *feed.ContentExtractor
	workerCount      int
	now              func() time.Time
}

func NewOrchestrator(fetcher SourceFetcher, normalizer *feed.Normalizer, classifier *feed.Classifier,
	contentExtractor *feed.ContentExtractor, workerCount int) *Orchestrator {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Orchestrator{
		fetcher:          fetcher,
		normalizer:       normalizer,
		classifier:       classifier,
		contentExtractor: contentExtractor,
		workerCount:      workerCount,
		now:              time.Now,
	}
}

// Run ingests every source once. It never fails: a source that errors or
// misses its deadline is recorded in the summary and contributes nothing.
func (o *Orchestrator) Run(ctx context.Context, sources []feed.Source, lookbackDays int) ([]feed.Article, *RunSummary) {
	summary := NewRunSummary(o.now(), lookbackDays)

	slog.Info("Ingestion started", "run_id", summary.RunID, "sources", len(sources),
		"workers", o.workerCount, "cutoff", summary.Cutoff.Format(time.RFC3339))

	taskQueue := make(chan *FetchSourceTask, len(sources))
	for _, source := range sources {
		taskQueue <- NewFetchSourceTask(source, summary.Cutoff, o.fetcher, o.normalizer, o.classifier, o.contentExtractor)
	}
	close(taskQueue)

	results := make(chan SourceResult, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < min(o.workerCount, len(sources)); i++ {
		wg.Add(1)
		go o.worker(ctx, i, taskQueue, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var articles []feed.Article
	for result := range results {
		summary.AddSource(result)
		articles = append(articles, result.Articles...)
	}
	summary.Collected = len(articles)

	slog.Info("Ingestion finished", "run_id", summary.RunID, "articles", len(articles),
		"succeeded", summary.SucceededSources(), "failed", summary.FailedSources())

	return articles, summary
}

func (o *Orchestrator) worker(ctx context.Context, id int, taskQueue <-chan *FetchSourceTask, results chan<- SourceResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskQueue {
		results <- o.executeTask(ctx, id, task)
	}
}

// executeTask gives the task its own deadline starting now. A task still
// running when the deadline passes is abandoned and its output discarded.
func (o *Orchestrator) executeTask(ctx context.Context, workerID int, task *FetchSourceTask) SourceResult {
	task.Start()

	taskCtx, cancel := context.WithTimeout(ctx, task.GetTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- task.Execute(taskCtx)
	}()

	select {
	case err := <-done:
		result := task.Result()
		result.Duration = task.GetDuration()
		if err != nil {
			slog.Warn("Source failed", "worker_id", workerID, "source", task.GetSourceName(), "id", task.GetID(), "error", err)
			return SourceResult{Source: result.Source, Rejected: result.Rejected, Err: err, Duration: result.Duration}
		}
		return result

	case <-taskCtx.Done():
		err := fmt.Errorf("source %s abandoned after %s: %w", task.GetSourceName(), task.GetTimeout(), taskCtx.Err())
		slog.Warn("Source failed", "worker_id", workerID, "source", task.GetSourceName(), "id", task.GetID(), "error", err)
		return SourceResult{Source: task.GetSourceName(), Err: err, Duration: task.GetDuration()}
	}
}
