package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/news-pulse/app/database"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("https://news.example.com/", "1.2.3")

	source := Source{Name: "BBC News", URL: "https://feeds.bbci.co.uk/news/rss.xml"}
	publishedTime := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	articles := []database.Article{
		{
			ID:          "article-1-uuid",
			Source:      "BBC News",
			Title:       "Markets rally",
			Description: "Stocks rose sharply.",
			URL:         "https://bbc.example/markets",
			PublishedAt: publishedTime,
			Sentiment:   "Positive",
			Topic:       "General News",
		},
		{
			ID:          "article-2-uuid",
			Source:      "BBC News",
			Title:       "Storm warning",
			URL:         "https://bbc.example/storm",
			PublishedAt: publishedTime.Add(-time.Hour),
			Sentiment:   "Negative",
			Topic:       "General News",
		},
	}

	rss, err := generator.Run(source, articles)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}

	if !strings.Contains(rss, `<rss version="2.0"`) {
		t.Error("RSS should contain RSS 2.0 declaration")
	}

	if !strings.Contains(rss, "<title>BBC News</title>") {
		t.Error("RSS should contain source name as channel title")
	}

	if !strings.Contains(rss, "<link>https://feeds.bbci.co.uk/news/rss.xml</link>") {
		t.Error("RSS should contain source URL as channel link")
	}

	if !strings.Contains(rss, `<atom:link href="https://news.example.com/feeds/BBC%20News" rel="self" type="application/rss+xml" />`) {
		t.Error("RSS should contain escaped atom:link self reference")
	}

	if !strings.Contains(rss, "<generator>NewsPulse/1.2.3</generator>") {
		t.Error("RSS should contain generator with version")
	}

	if !strings.Contains(rss, `<guid isPermaLink="true">https://bbc.example/markets</guid>`) {
		t.Error("RSS should use article URL as permalink GUID")
	}

	if !strings.Contains(rss, "<category>Positive</category>") {
		t.Error("RSS should contain sentiment category")
	}

	if !strings.Contains(rss, "<category>Negative</category>") {
		t.Error("RSS should contain second item sentiment category")
	}

	if !strings.Contains(rss, "<category>General News</category>") {
		t.Error("RSS should contain topic category")
	}

	if !strings.Contains(rss, "<description>No description available</description>") {
		t.Error("RSS should fill in missing item description")
	}

	if strings.Index(rss, "Markets rally") > strings.Index(rss, "Storm warning") {
		t.Error("RSS should keep article order")
	}
}

func TestGenerateWithSpecialCharacters(t *testing.T) {
	generator := NewGenerator("http://localhost:8080", "dev")

	articles := []database.Article{
		{
			ID:          "special",
			Title:       "Item with <tags> & \"quotes\"",
			URL:         "https://example.com/item?a=1&b=2",
			Description: "Description with <em>emphasis</em>",
			Sentiment:   "Neutral",
			Topic:       "Science & Tech",
		},
	}

	rss, err := generator.Run(Source{Name: "Special", URL: "https://example.com/feed"}, articles)
	if err != nil {
		t.Fatalf("Expected no error with special characters, got: %v", err)
	}

	if !strings.Contains(rss, "Item with &lt;tags&gt; &amp; &#34;quotes&#34;") {
		t.Error("Item title should have escaped special characters")
	}

	if !strings.Contains(rss, "https://example.com/item?a=1&amp;b=2") {
		t.Error("Item link should have escaped ampersand")
	}

	if !strings.Contains(rss, "<category>Science &amp; Tech</category>") {
		t.Error("Topic category should be escaped")
	}
}

func TestGenerateWithEmptyArticles(t *testing.T) {
	generator := NewGenerator("http://localhost:8080", "dev")

	rss, err := generator.Run(Source{Name: "Empty", URL: "https://example.com/feed"}, nil)
	if err != nil {
		t.Fatalf("Expected no error with empty articles, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("Empty RSS should not contain any items")
	}

	if !strings.Contains(rss, "<lastBuildDate>") {
		t.Error("Empty RSS should still contain lastBuildDate")
	}

	if !strings.HasSuffix(rss, "</channel>\n</rss>") {
		t.Error("Empty RSS should be properly closed")
	}
}

func TestIsURLMethod(t *testing.T) {
	generator := NewGenerator("", "")

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"http://example.com", true},
		{"https://example.com", true},
		{"ftp://example.com", false},
		{"not-a-url", false},
		{"http://", false},
		{"https://", false},
	}

	for _, test := range tests {
		result := generator.isURL(test.input)
		if result != test.expected {
			t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, result)
		}
	}
}
