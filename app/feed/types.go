package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Registry types

type Source struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	Topic          string `yaml:"topic"`
	MaxItems       int    `yaml:"max_items"`
	Timeout        int    `yaml:"timeout"`         // seconds
	ExtractContent bool   `yaml:"extract_content"` // fill empty summaries from the article page
	Disabled       bool   `yaml:"disabled"`
}

func (s Source) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

// Pipeline types

// RawEntry is a feed entry as published, before any validation.
type RawEntry struct {
	Title     string
	Summary   string
	Link      string
	Published string
	Updated   string
}

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

type Sentiment struct {
	Label     Label
	Score     float64
	Indicator string
}

type Article struct {
	Source        string
	Title         string
	Description   string
	URL           string
	PublishedAt   time.Time
	PublishedDate string // YYYY-MM-DD in the configured timezone
	PublishedTime string // HH:MM:SS in the configured timezone
	Sentiment     Sentiment
	Topic         string
}

// DedupKey identifies an article across runs. Storage rejects a second
// article with the same key.
func (a Article) DedupKey() string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", a.Source, a.URL)))
	return hex.EncodeToString(hash[:])
}
