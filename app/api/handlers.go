package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-pulse/app/database"
	"github.com/lysyi3m/news-pulse/app/feed"
	"github.com/lysyi3m/news-pulse/app/tasks"
)

// NewHandler wires the read side of the store. runner may be nil, in which
// case ingestion cannot be triggered over HTTP; feedCache may be nil too.
func NewHandler(registry *feed.Registry, articleRepo database.ArticleReader,
	generator GeneratorInterface, runner tasks.IngestionRunner, feedCache FeedCacheInterface) *Handler {
	return &Handler{
		registry:    registry,
		articleRepo: articleRepo,
		generator:   generator,
		runner:      runner,
		feedCache:   feedCache,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("source")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	source, err := h.registry.Get(name)
	if err != nil {
		slog.Debug("Source not found", "source", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	if h.feedCache != nil {
		if rss, ok, err := h.feedCache.GetFeed(c.Request.Context(), name); err != nil {
			slog.Warn("Feed cache error", "operation", "get_feed", "source", name, "error", err)
		} else if ok {
			c.Header("Content-Type", "application/xml; charset=utf-8")
			c.Header("X-Feed-Name", name)
			c.Header("X-Cache", "HIT")
			c.String(http.StatusOK, rss)
			return
		}
	}

	articles, err := h.articleRepo.ListArticles(c.Request.Context(), database.ArticleQuery{
		Source: name,
		Limit:  source.MaxItems,
	})
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "source", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(source, articles)
	if err != nil {
		slog.Error("RSS generation error", "source", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if h.feedCache != nil {
		if err := h.feedCache.SetFeed(c.Request.Context(), name, rss); err != nil {
			slog.Warn("Feed cache error", "operation", "set_feed", "source", name, "error", err)
		}
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	c.Header("X-Feed-Name", name)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.registry.Count(),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(c.Request.Context()); err == nil {
		health["articles"] = articleCount
	} else {
		slog.Error("Database error", "operation", "get_article_count", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	health["status"] = "ok"
	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListArticles(c *gin.Context) {
	query := database.ArticleQuery{
		Source:    c.Query("source"),
		Sentiment: c.Query("sentiment"),
		Topic:     c.Query("topic"),
		Date:      c.Query("date"),
	}

	if query.Sentiment != "" && !validLabel(query.Sentiment) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sentiment, expected Positive, Negative or Neutral"})
		return
	}

	if query.Date != "" {
		if _, err := time.Parse("2006-01-02", query.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit, expected a positive integer"})
			return
		}
		query.Limit = n
	}

	articles, err := h.articleRepo.ListArticles(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"articles": articles,
		"total":    len(articles),
	})
}

func (h *Handler) APIGetStats(c *gin.Context) {
	counts, err := h.articleRepo.GetSentimentStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_sentiment_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	bySource := make(map[string]map[string]int)
	totals := map[string]int{
		string(feed.LabelPositive): 0,
		string(feed.LabelNegative): 0,
		string(feed.LabelNeutral):  0,
	}
	articles := 0

	for _, count := range counts {
		if bySource[count.Source] == nil {
			bySource[count.Source] = make(map[string]int)
		}
		bySource[count.Source][count.Sentiment] = count.Count
		totals[count.Sentiment] += count.Count
		articles += count.Count
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"total":        articles,
		"by_sentiment": totals,
		"by_source":    bySource,
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.registry.Sources()

	result := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		result = append(result, map[string]interface{}{
			"name":            source.Name,
			"url":             source.URL,
			"topic":           source.Topic,
			"enabled":         !source.Disabled,
			"max_items":       source.MaxItems,
			"timeout":         source.GetTimeout().String(),
			"extract_content": source.ExtractContent,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": result,
		"total":   len(result),
	})
}

func (h *Handler) APIRunIngestion(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ingestion is not available"})
		return
	}

	summary, err := h.runner.Run(c.Request.Context())
	if errors.Is(err, tasks.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("Ingestion run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Ingestion run failed",
			"details": err.Error(),
		})
		return
	}

	if h.feedCache != nil {
		if err := h.feedCache.InvalidateFeeds(c.Request.Context()); err != nil {
			slog.Warn("Feed cache error", "operation", "invalidate_feeds", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      summary.RunID,
		"started":     summary.Started,
		"finished":    summary.Finished,
		"succeeded":   summary.SucceededSources(),
		"failed":      summary.FailedSources(),
		"collected":   summary.Collected,
		"saved":       summary.Saved,
		"duplicates":  summary.Duplicates,
		"save_errors": summary.SaveErrors,
	})
}

func validLabel(s string) bool {
	switch feed.Label(s) {
	case feed.LabelPositive, feed.LabelNegative, feed.LabelNeutral:
		return true
	}
	return false
}
