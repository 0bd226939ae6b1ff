package database

import (
	"time"
)

// ArticleRecord is one row to insert into the articles table.
type ArticleRecord struct {
	ID                 string
	Source             string
	Title              string
	Description        string
	URL                string
	PublishedDate      string // YYYY-MM-DD
	PublishedTime      string // HH:MM:SS
	PublishedAt        time.Time
	Sentiment          string
	SentimentScore     float64
	SentimentIndicator string
	Topic              string
	DedupKey           string // sha256 of source and URL, unique per table
}

// Article is a stored article as read back by downstream consumers.
type Article struct {
	ID                 string    `json:"id"`
	Source             string    `json:"source"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	URL                string    `json:"url"`
	PublishedDate      string    `json:"published_date"`
	PublishedTime      string    `json:"published_time"`
	PublishedAt        time.Time `json:"published_at"`
	Sentiment          string    `json:"sentiment"`
	SentimentScore     float64   `json:"sentiment_score"`
	SentimentIndicator string    `json:"sentiment_indicator"`
	Topic              string    `json:"topic"`
	CreatedAt          time.Time `json:"created_at"`
}

type ArticleQuery struct {
	Source    string
	Sentiment string
	Topic     string
	Date      string // YYYY-MM-DD
	Limit     int
}

type SentimentCount struct {
	Source    string `json:"source"`
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}
