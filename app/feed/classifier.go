package feed

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PolarScore   = 0.7
	NeutralScore = 0.5

	PositiveIndicator = "😊"
	NegativeIndicator = "😟"
	NeutralIndicator  = "😐"
)

// Stored articles were scored against exactly these lists; changing them
// changes labels for the whole corpus.
var (
	PositiveLexicon = []string{"success", "win", "growth", "boost", "gain", "positive", "improve", "rise"}
	NegativeLexicon = []string{"crisis", "fail", "loss", "decline", "drop", "negative", "concern", "threat"}
)

// Classifier labels text by counting which lexicon words it contains.
// A word counts once however often it appears, and it also matches inside
// longer words ("losses" contains "loss").
type Classifier struct {
	positive []string
	negative []string
}

func NewClassifier() *Classifier {
	return &Classifier{
		positive: PositiveLexicon,
		negative: NegativeLexicon,
	}
}

func (c *Classifier) Run(title, summary string) Sentiment {
	text := cases.Lower(language.Und).String(title + " " + summary)

	positive := countContained(text, c.positive)
	negative := countContained(text, c.negative)

	switch {
	case positive > negative:
		return Sentiment{Label: LabelPositive, Score: PolarScore, Indicator: PositiveIndicator}
	case negative > positive:
		return Sentiment{Label: LabelNegative, Score: PolarScore, Indicator: NegativeIndicator}
	default:
		return Sentiment{Label: LabelNeutral, Score: NeutralScore, Indicator: NeutralIndicator}
	}
}

func countContained(text string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			count++
		}
	}
	return count
}
