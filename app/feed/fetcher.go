package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodySize = 10 << 20

type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
	}
}

// Fetch downloads and parses one source, returning at most source.MaxItems
// entries in feed order. The source timeout bounds download and parsing.
func (f *Fetcher) Fetch(ctx context.Context, source Source) ([]RawEntry, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, source.GetTimeout())
	defer cancel()

	data, err := f.get(timeoutCtx, source.URL, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if err := timeoutCtx.Err(); err != nil {
		return nil, err
	}

	entries, err := f.parser.Run(data)
	if err != nil {
		return nil, err
	}

	if source.MaxItems > 0 && len(entries) > source.MaxItems {
		entries = entries[:source.MaxItems]
	}

	return entries, nil
}

// FetchPage downloads an HTML article page.
func (f *Fetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, "text/html")
}

func (f *Fetcher) get(ctx context.Context, url string, wantContentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if wantContentType != "" {
		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(contentType), wantContentType) {
			return nil, fmt.Errorf("content type is not %s: %s", wantContentType, contentType)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
