package feed

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// PlaceholderTitle marks entries that arrived without a title.
const PlaceholderTitle = "No Title"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// RejectReason explains why an entry was dropped. It is returned wrapped,
// so callers recover it with errors.As.
type RejectReason string

const (
	ReasonMissingTimestamp RejectReason = "missing_timestamp"
	ReasonInvalidTimestamp RejectReason = "invalid_timestamp"
	ReasonStale            RejectReason = "stale"
	ReasonMissingTitle     RejectReason = "missing_title"
	ReasonMissingURL       RejectReason = "missing_url"
)

func (r RejectReason) Error() string {
	return "entry rejected: " + string(r)
}

type Normalizer struct {
	location *time.Location
}

// NewNormalizer splits timestamps in loc; nil means time.Local at call time.
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{location: loc}
}

// Run turns a raw entry into an article without sentiment. Entries published
// before cutoff are rejected; an entry exactly at cutoff is kept.
func (n *Normalizer) Run(raw RawEntry, source Source, cutoff time.Time) (Article, error) {
	loc := n.location
	if loc == nil {
		loc = time.Local
	}

	stamp := strings.TrimSpace(cmp.Or(raw.Published, raw.Updated))
	if stamp == "" {
		return Article{}, ReasonMissingTimestamp
	}

	publishedAt, err := dateparse.ParseIn(stamp, loc)
	if err != nil {
		return Article{}, fmt.Errorf("%w: %q: %v", ReasonInvalidTimestamp, stamp, err)
	}

	if publishedAt.Before(cutoff) {
		return Article{}, ReasonStale
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" || title == PlaceholderTitle {
		return Article{}, ReasonMissingTitle
	}

	link := strings.TrimSpace(raw.Link)
	if link == "" {
		return Article{}, ReasonMissingURL
	}

	local := publishedAt.In(loc)

	return Article{
		Source:        source.Name,
		Title:         title,
		Description:   HTMLToText(raw.Summary),
		URL:           link,
		PublishedAt:   publishedAt,
		PublishedDate: local.Format(dateLayout),
		PublishedTime: local.Format(timeLayout),
		Topic:         source.Topic,
	}, nil
}

// HTMLToText strips markup from feed summaries and collapses whitespace.
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	doc.Find("script, style").Remove()

	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
