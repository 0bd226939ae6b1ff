package feed

import (
	"errors"
	"testing"
	"time"
)

var testSource = Source{Name: "BBC News", URL: "https://feeds.example.com/bbc", Topic: "General News"}

func validEntry() RawEntry {
	return RawEntry{
		Title:     "  Markets rally  ",
		Summary:   "<p>Stocks <b>rose</b> sharply.</p>\n\n<script>alert(1)</script>",
		Link:      "https://bbc.example/markets",
		Published: "Mon, 03 Nov 2025 10:30:45 +0000",
	}
}

func TestNormalizerRun(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	cutoff := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	article, err := normalizer.Run(validEntry(), testSource, cutoff)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if article.Source != "BBC News" {
		t.Errorf("Expected source 'BBC News', got: %s", article.Source)
	}
	if article.Title != "Markets rally" {
		t.Errorf("Expected trimmed title, got: %q", article.Title)
	}
	if article.Description != "Stocks rose sharply." {
		t.Errorf("Expected plain text description, got: %q", article.Description)
	}
	if article.URL != "https://bbc.example/markets" {
		t.Errorf("Expected URL to be kept, got: %s", article.URL)
	}
	if article.PublishedDate != "2025-11-03" {
		t.Errorf("Expected date '2025-11-03', got: %s", article.PublishedDate)
	}
	if article.PublishedTime != "10:30:45" {
		t.Errorf("Expected time '10:30:45', got: %s", article.PublishedTime)
	}
	if article.Topic != "General News" {
		t.Errorf("Expected topic 'General News', got: %s", article.Topic)
	}
}

func TestNormalizerRunSplitsInLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*60*60+30*60)
	normalizer := NewNormalizer(kolkata)

	entry := validEntry()
	entry.Published = "Mon, 03 Nov 2025 20:00:00 +0000"

	article, err := normalizer.Run(entry, testSource, time.Time{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if article.PublishedDate != "2025-11-04" || article.PublishedTime != "01:30:00" {
		t.Errorf("Expected 2025-11-04 01:30:00 in IST, got: %s %s", article.PublishedDate, article.PublishedTime)
	}
	if !article.PublishedAt.Equal(time.Date(2025, 11, 3, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected instant to be preserved, got: %v", article.PublishedAt)
	}
}

func TestNormalizerRunUpdatedFallback(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)

	entry := validEntry()
	entry.Published = ""
	entry.Updated = "2025-11-02T08:15:00Z"

	article, err := normalizer.Run(entry, testSource, time.Time{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if article.PublishedDate != "2025-11-02" || article.PublishedTime != "08:15:00" {
		t.Errorf("Expected updated timestamp to be used, got: %s %s", article.PublishedDate, article.PublishedTime)
	}
}

func TestNormalizerRunCutoffBoundary(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)
	cutoff := time.Date(2025, 11, 3, 10, 30, 45, 0, time.UTC)

	if _, err := normalizer.Run(validEntry(), testSource, cutoff); err != nil {
		t.Errorf("Expected entry published exactly at cutoff to be kept, got: %v", err)
	}

	_, err := normalizer.Run(validEntry(), testSource, cutoff.Add(time.Second))
	if !errors.Is(err, ReasonStale) {
		t.Errorf("Expected stale rejection, got: %v", err)
	}
}

func TestNormalizerRunRejections(t *testing.T) {
	normalizer := NewNormalizer(time.UTC)

	tests := []struct {
		name     string
		mutate   func(*RawEntry)
		expected RejectReason
	}{
		{"missing timestamp", func(e *RawEntry) { e.Published = ""; e.Updated = "" }, ReasonMissingTimestamp},
		{"invalid timestamp", func(e *RawEntry) { e.Published = "not a date at all" }, ReasonInvalidTimestamp},
		{"empty title", func(e *RawEntry) { e.Title = "   " }, ReasonMissingTitle},
		{"placeholder title", func(e *RawEntry) { e.Title = PlaceholderTitle }, ReasonMissingTitle},
		{"missing link", func(e *RawEntry) { e.Link = "" }, ReasonMissingURL},
		{"stale", func(e *RawEntry) { e.Published = "Mon, 01 Jan 2024 00:00:00 +0000" }, ReasonStale},
	}

	cutoff := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)

			_, err := normalizer.Run(entry, testSource, cutoff)
			if err == nil {
				t.Fatal("Expected rejection error")
			}

			var reason RejectReason
			if !errors.As(err, &reason) {
				t.Fatalf("Expected RejectReason in error chain, got: %v", err)
			}
			if reason != tt.expected {
				t.Errorf("Expected reason %s, got: %s", tt.expected, reason)
			}
		})
	}
}

func TestHTMLToText(t *testing.T) {
	tests := map[string]string{
		"":                                    "",
		"plain   text\n here":                 "plain text here",
		"<p>One</p><p>Two</p>":                "OneTwo",
		"<div>Tom &amp; Jerry</div>":          "Tom & Jerry",
		"<style>p{}</style><span>Kept</span>": "Kept",
	}

	for input, expected := range tests {
		if got := HTMLToText(input); got != expected {
			t.Errorf("HTMLToText(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestArticleDedupKey(t *testing.T) {
	a := Article{Source: "BBC News", URL: "https://bbc.example/1"}
	b := Article{Source: "BBC News", URL: "https://bbc.example/1", Title: "Different title"}
	c := Article{Source: "Reuters", URL: "https://bbc.example/1"}

	if a.DedupKey() != b.DedupKey() {
		t.Error("Expected same source and URL to share a dedup key")
	}
	if a.DedupKey() == c.DedupKey() {
		t.Error("Expected different sources to have different dedup keys")
	}
	if len(a.DedupKey()) != 64 {
		t.Errorf("Expected hex sha256 key, got length %d", len(a.DedupKey()))
	}
}
