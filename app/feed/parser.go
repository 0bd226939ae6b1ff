package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS, Atom or JSON feed body. Entries keep feed order.
func (p *Parser) Run(data []byte) ([]RawEntry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.rawEntry(item))
	}

	return entries, nil
}

func (p *Parser) rawEntry(item *gofeed.Item) RawEntry {
	return RawEntry{
		Title:     item.Title,
		Summary:   item.Description,
		Link:      cmp.Or(item.Link, p.firstLink(item)),
		Published: item.Published,
		Updated:   item.Updated,
	}
}

func (p *Parser) firstLink(item *gofeed.Item) string {
	for _, link := range item.Links {
		if link != "" {
			return link
		}
	}
	return ""
}
