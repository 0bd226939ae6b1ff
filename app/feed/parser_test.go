package feed

import (
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test &lt;b&gt;Item 1&lt;/b&gt; Description</description>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Test Item 2 Description</description>
      <guid>item-2</guid>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	entry1 := entries[0]
	if entry1.Title != "Test Item 1" {
		t.Errorf("Expected title 'Test Item 1', got: %s", entry1.Title)
	}
	if entry1.Link != "https://example.com/item1" {
		t.Errorf("Expected link 'https://example.com/item1', got: %s", entry1.Link)
	}
	if entry1.Summary != "Test <b>Item 1</b> Description" {
		t.Errorf("Expected raw HTML summary, got: %s", entry1.Summary)
	}
	if entry1.Published != "Mon, 03 Jul 2023 10:00:00 GMT" {
		t.Errorf("Expected raw published string, got: %s", entry1.Published)
	}

	// Missing timestamps stay empty for the normalizer to reject
	if entries[1].Published != "" || entries[1].Updated != "" {
		t.Errorf("Expected empty timestamps for item 2, got: %q %q", entries[1].Published, entries[1].Updated)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Test Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:60a76c80-d399-11d9-b93C-0003939e0af6</id>
  <entry>
    <title>Atom Entry 1</title>
    <link href="https://example.com/entry1"/>
    <id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <summary>Atom Entry 1 Summary</summary>
  </entry>
</feed>`

	parser := NewParser()
	entries, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}

	entry := entries[0]
	if entry.Link != "https://example.com/entry1" {
		t.Errorf("Expected link 'https://example.com/entry1', got: %s", entry.Link)
	}
	if entry.Summary != "Atom Entry 1 Summary" {
		t.Errorf("Expected summary 'Atom Entry 1 Summary', got: %s", entry.Summary)
	}
	if entry.Updated != "2023-07-03T10:00:00Z" {
		t.Errorf("Expected updated '2023-07-03T10:00:00Z', got: %s", entry.Updated)
	}
}

func TestParsePreservesEntryOrder(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Ordered</title>
    <item><title>C</title><link>https://example.com/c</link></item>
    <item><title>A</title><link>https://example.com/a</link></item>
    <item><title>B</title><link>https://example.com/b</link></item>
  </channel>
</rss>`

	parser := NewParser()
	entries, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"C", "A", "B"}
	if len(entries) != len(expected) {
		t.Fatalf("Expected %d entries, got: %d", len(expected), len(entries))
	}
	for i, title := range expected {
		if entries[i].Title != title {
			t.Errorf("Expected entry %d to be %s, got: %s", i, title, entries[i].Title)
		}
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, err := parser.Run([]byte("This is not a valid feed"))

	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}
