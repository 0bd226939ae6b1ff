package feed

import (
	"strings"
	"testing"
)

const articlePage = `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Test Article</title>
		<script>var tracking = "should not appear";</script>
		<style>.hidden { display: none; }</style>
	</head>
	<body>
		<header>
			<h1>Site Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Main Article Title</h1>
				<p>This is the main content of the article. It contains several paragraphs of meaningful text that should be extracted by the readability algorithm.</p>
				<p>This is another paragraph with more content. The readability algorithm should identify this as the main content area and extract it properly.</p>
				<p>Here is some more substantial content to ensure we meet the character threshold. This paragraph adds more context and information that would be valuable to readers.</p>
				<p>Markets reacted calmly to the announcement, and analysts expect the policy to be reviewed again at the next quarterly meeting of the board.</p>
			</article>
		</main>
		<footer>
			<p>Copyright 2024</p>
		</footer>
	</body>
	</html>
	`

func TestContentExtractor_ValidHTML(t *testing.T) {
	extractor := NewContentExtractor()

	result, err := extractor.Run([]byte(articlePage), "https://example.com/news/article")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "main content of the article") {
		t.Errorf("Expected extracted content to contain main article text, got: %s", result)
	}

	if strings.Contains(result, "should not appear") {
		t.Errorf("Expected script content to be removed")
	}

	if strings.Contains(result, "<p>") {
		t.Errorf("Expected plain text without markup, got: %s", result)
	}

	if strings.Contains(result, "\n") || strings.Contains(result, "  ") {
		t.Errorf("Expected collapsed whitespace, got: %q", result)
	}
}

func TestContentExtractor_WithoutURL(t *testing.T) {
	extractor := NewContentExtractor()

	result, err := extractor.Run([]byte(articlePage), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result == "" {
		t.Errorf("Expected non-empty result")
	}
}

func TestContentExtractor_EmptyData(t *testing.T) {
	extractor := NewContentExtractor()

	result, err := extractor.Run([]byte{}, "https://example.com")
	if err == nil {
		t.Errorf("Expected error for empty data")
	}
	if result != "" {
		t.Errorf("Expected empty result for empty data, got: %s", result)
	}
}

func TestContentExtractor_NilData(t *testing.T) {
	extractor := NewContentExtractor()

	if _, err := extractor.Run(nil, "https://example.com"); err == nil {
		t.Errorf("Expected error for nil data")
	}
}
