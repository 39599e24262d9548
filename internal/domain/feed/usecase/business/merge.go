package business

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/feed-service/pkg/htmltext"
)

// ParseFeed decodes an Atom, RSS 0.9x-2.0 or JSON Feed document
func ParseFeed(body []byte) (*gofeed.Feed, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewProtocolError("failed to parse feed", err)
	}
	return parsed, nil
}

// fieldMerge proposes an update for one feed field, or nil for no change
type fieldMerge func(existing *entities.Feed, parsed *gofeed.Feed) *entities.PartialFeed

// feedMerges is applied in order; each only fills fields it owns
var feedMerges = []fieldMerge{
	mergeFeedType,
	mergeTitle,
	mergeLastUpdated,
}

// MergeFeed compares parsed metadata against the stored feed and returns
// the fields to update, or nil if nothing changes. feed_type and title are
// filled once; last_updated only moves forward.
func MergeFeed(existing *entities.Feed, parsed *gofeed.Feed) *entities.PartialFeed {
	if existing == nil || parsed == nil {
		return nil
	}

	var out *entities.PartialFeed
	for _, merge := range feedMerges {
		p := merge(existing, parsed)
		if p == nil {
			continue
		}
		out = out.Merge(p)
	}

	if out.IsEmpty() {
		return nil
	}
	return out
}

func mergeFeedType(existing *entities.Feed, parsed *gofeed.Feed) *entities.PartialFeed {
	if existing.FeedType != entities.FeedTypeUnknown {
		return nil
	}
	ft, ok := feedTypeOf(parsed.FeedType)
	if !ok {
		return nil
	}
	return &entities.PartialFeed{FeedType: entities.Ptr(ft)}
}

func mergeTitle(existing *entities.Feed, parsed *gofeed.Feed) *entities.PartialFeed {
	if existing.Title != "" {
		return nil
	}
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return nil
	}
	return &entities.PartialFeed{Title: entities.Ptr(title)}
}

func mergeLastUpdated(existing *entities.Feed, parsed *gofeed.Feed) *entities.PartialFeed {
	candidate := LastUpdated(parsed)
	if candidate <= existing.LastUpdated {
		return nil
	}
	return &entities.PartialFeed{LastUpdated: entities.Ptr(candidate)}
}

// LastUpdated is the newer of the feed-level updated time and the newest
// entry publication time, in unix seconds; zero when neither is known.
func LastUpdated(parsed *gofeed.Feed) int64 {
	var newest int64
	if parsed.UpdatedParsed != nil {
		newest = parsed.UpdatedParsed.Unix()
	}
	for _, item := range parsed.Items {
		if item == nil || item.PublishedParsed == nil {
			continue
		}
		if ts := item.PublishedParsed.Unix(); ts > newest {
			newest = ts
		}
	}
	return newest
}

// feedTypeOf maps gofeed's format name onto the stored vocabulary.
// Every RSS version collapses to Rss.
func feedTypeOf(format string) (entities.FeedType, bool) {
	switch strings.ToLower(format) {
	case "atom":
		return entities.FeedTypeAtom, true
	case "rss":
		return entities.FeedTypeRss, true
	case "json":
		return entities.FeedTypeJSONFeed, true
	default:
		return entities.FeedTypeUnknown, false
	}
}

// ExtractItems converts parsed entries into candidate items for feedID.
// feedTitle is the last resort title for entries lacking title and summary.
// Entries without any link cannot be identified and are skipped; their
// count is returned.
func ExtractItems(feedID uint, feedTitle string, parsed *gofeed.Feed) ([]entities.FeedItem, int) {
	items := make([]entities.FeedItem, 0, len(parsed.Items))
	skipped := 0

	for _, entry := range parsed.Items {
		if entry == nil {
			skipped++
			continue
		}

		link := entryLink(entry)
		if link == "" {
			skipped++
			continue
		}

		description := strings.TrimSpace(entry.Description)
		if description == "" {
			description = strings.TrimSpace(entry.Content)
		}

		item := entities.FeedItem{
			FeedID:  feedID,
			Title:   entryTitle(entry, description, feedTitle),
			Link:    link,
			PubDate: entryPubDate(entry),
		}
		if description != "" {
			item.Description = entities.Ptr(description)
		}
		if author := entryAuthor(entry); author != "" {
			item.Author = entities.Ptr(author)
		}

		items = append(items, item)
	}

	return items, skipped
}

func entryLink(entry *gofeed.Item) string {
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	for _, l := range entry.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

func entryTitle(entry *gofeed.Item, description, feedTitle string) string {
	if title := htmltext.ToText(entry.Title); title != "" {
		return title
	}
	if summary := htmltext.ToText(description); summary != "" {
		return htmltext.Excerpt(summary, 200)
	}
	return feedTitle
}

func entryAuthor(entry *gofeed.Item) string {
	var person *gofeed.Person
	if len(entry.Authors) > 0 {
		person = entry.Authors[0]
	} else if entry.Author != nil {
		person = entry.Author
	}
	if person == nil {
		return ""
	}
	if name := strings.TrimSpace(person.Name); name != "" {
		return name
	}
	return strings.TrimSpace(person.Email)
}

func entryPubDate(entry *gofeed.Item) int64 {
	switch {
	case entry.PublishedParsed != nil:
		return entry.PublishedParsed.Unix()
	case entry.UpdatedParsed != nil:
		return entry.UpdatedParsed.Unix()
	default:
		return 0
	}
}
