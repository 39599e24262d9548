package business

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

const atomExample = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example</title>
  <id>urn:uuid:60a76c80-d399-11d9-b93C-0003939e0af6</id>
  <entry>
    <title>First post</title>
    <link href="https://example.com/posts/1"/>
    <id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
    <published>2024-03-01T10:00:00Z</published>
    <summary>Hello &amp; welcome</summary>
    <author><name>Jane Doe</name></author>
  </entry>
</feed>`

// 2024-03-01T10:00:00Z
const atomEntryPublished int64 = 1709287200

const rssMixed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Mixed Bag</title>
    <link>https://mixed.example/</link>
    <description>test</description>
    <item>
      <title>Titled</title>
      <link>https://mixed.example/titled</link>
      <pubDate>Fri, 01 Mar 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <link>https://mixed.example/summary-only</link>
      <description>&lt;p&gt;Only a &lt;b&gt;summary&lt;/b&gt; here&lt;/p&gt;</description>
    </item>
    <item>
      <link>https://mixed.example/bare</link>
    </item>
    <item>
      <title>No link at all</title>
      <description>cannot be identified</description>
    </item>
  </channel>
</rss>`

const jsonFeed = `{
  "version": "https://jsonfeed.org/version/1.1",
  "title": "JSON Example",
  "items": [
    {"id": "1", "url": "https://json.example/1", "title": "One", "date_published": "2024-03-02T00:00:00Z"}
  ]
}`

func mustParse(t *testing.T, doc string) *gofeed.Feed {
	t.Helper()
	parsed, err := ParseFeed([]byte(doc))
	require.NoError(t, err)
	return parsed
}

func TestParseFeed_Garbage(t *testing.T) {
	_, err := ParseFeed([]byte("this is not a feed"))
	require.Error(t, err)
	require.True(t, pkgerrors.IsProtocolError(err))
}

func TestMergeFeed_FirstSightOfAtom(t *testing.T) {
	parsed := mustParse(t, atomExample)

	got := MergeFeed(&entities.Feed{FeedType: entities.FeedTypeUnknown}, parsed)
	require.NotNil(t, got)
	require.Equal(t, entities.FeedTypeAtom, *got.FeedType)
	require.Equal(t, "Example", *got.Title)
	require.Equal(t, atomEntryPublished, *got.LastUpdated)
	require.Nil(t, got.ErrorTime)
	require.Nil(t, got.LastChecked)
}

func TestMergeFeed_FeedTypeMapping(t *testing.T) {
	tests := []struct {
		doc  string
		want entities.FeedType
	}{
		{doc: atomExample, want: entities.FeedTypeAtom},
		{doc: rssMixed, want: entities.FeedTypeRss},
		{doc: jsonFeed, want: entities.FeedTypeJSONFeed},
	}

	for _, tt := range tests {
		got := MergeFeed(&entities.Feed{}, mustParse(t, tt.doc))
		require.NotNil(t, got)
		require.Equal(t, tt.want, *got.FeedType)
	}
}

func TestMergeFeed_FillOnce(t *testing.T) {
	existing := &entities.Feed{
		FeedType:    entities.FeedTypeRss,
		Title:       "Curated Name",
		LastUpdated: atomEntryPublished,
	}

	require.Nil(t, MergeFeed(existing, mustParse(t, atomExample)))
}

func TestMergeFeed_LastUpdatedIsMonotonic(t *testing.T) {
	feed := &entities.Feed{FeedType: entities.FeedTypeAtom, Title: "x"}
	observed := []int64{1000, 500, 1000, 4000, 3999, 0, 4001}

	prev := feed.LastUpdated
	for _, ts := range observed {
		parsed := &gofeed.Feed{FeedType: "atom"}
		if ts > 0 {
			u := time.Unix(ts, 0)
			parsed.UpdatedParsed = &u
		}

		MergeFeed(feed, parsed).Apply(feed)
		require.GreaterOrEqual(t, feed.LastUpdated, prev)
		prev = feed.LastUpdated
	}
	require.EqualValues(t, 4001, feed.LastUpdated)
}

func TestLastUpdated_PrefersNewest(t *testing.T) {
	feedUpdated := time.Unix(5000, 0)
	older := time.Unix(100, 0)
	newer := time.Unix(9000, 0)

	parsed := &gofeed.Feed{
		UpdatedParsed: &feedUpdated,
		Items: []*gofeed.Item{
			{PublishedParsed: &older},
			nil,
			{PublishedParsed: &newer},
			{},
		},
	}
	require.EqualValues(t, 9000, LastUpdated(parsed))

	parsed.Items = nil
	require.EqualValues(t, 5000, LastUpdated(parsed))

	require.Zero(t, LastUpdated(&gofeed.Feed{}))
}

func TestExtractItems_Atom(t *testing.T) {
	items, skipped := ExtractItems(7, "Example", mustParse(t, atomExample))
	require.Zero(t, skipped)
	require.Len(t, items, 1)

	item := items[0]
	require.EqualValues(t, 7, item.FeedID)
	require.Equal(t, "First post", item.Title)
	require.Equal(t, "https://example.com/posts/1", item.Link)
	require.Equal(t, atomEntryPublished, item.PubDate)
	require.NotNil(t, item.Author)
	require.Equal(t, "Jane Doe", *item.Author)
	require.NotNil(t, item.Description)
	require.Contains(t, *item.Description, "welcome")
}

func TestExtractItems_FallbacksAndMissingLinks(t *testing.T) {
	items, skipped := ExtractItems(1, "Mixed Bag", mustParse(t, rssMixed))

	require.Equal(t, 1, skipped)
	require.Len(t, items, 3)

	require.Equal(t, "Titled", items[0].Title)
	require.NotZero(t, items[0].PubDate)
	require.Nil(t, items[0].Author)

	require.Equal(t, "Only a summary here", items[1].Title)
	require.Zero(t, items[1].PubDate)

	require.Equal(t, "Mixed Bag", items[2].Title)
	require.Equal(t, "https://mixed.example/bare", items[2].Link)
	require.Nil(t, items[2].Description)
}

func TestExtractItems_ZeroLinksNeverPanics(t *testing.T) {
	parsed := &gofeed.Feed{Items: []*gofeed.Item{
		{Title: "no links"},
		{Title: "blank links", Links: []string{"", "  "}},
		{Title: "second link", Links: []string{"", "https://x.example/2"}},
	}}

	items, skipped := ExtractItems(1, "feed", parsed)
	require.Equal(t, 2, skipped)
	require.Len(t, items, 1)
	require.Equal(t, "https://x.example/2", items[0].Link)
}

func TestEntryPubDate_FallsBackToUpdated(t *testing.T) {
	updated := time.Unix(1234, 0)
	require.EqualValues(t, 1234, entryPubDate(&gofeed.Item{UpdatedParsed: &updated}))
	require.Zero(t, entryPubDate(&gofeed.Item{}))
}

func TestEntryAuthor(t *testing.T) {
	require.Equal(t, "first", entryAuthor(&gofeed.Item{Authors: []*gofeed.Person{{Name: "first"}, {Name: "second"}}}))
	require.Equal(t, "mail@example.com", entryAuthor(&gofeed.Item{Authors: []*gofeed.Person{{Email: "mail@example.com"}}}))
	require.Empty(t, entryAuthor(&gofeed.Item{}))
}
