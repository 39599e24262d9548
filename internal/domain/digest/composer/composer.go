package composer

import (
	"strings"
	"time"

	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
)

// Digest is the input of both renderers: one subscription's new items
type Digest struct {
	Name        string
	FeedURL     string
	Items       []feedentities.FeedItem
	GeneratedAt time.Time
}

// DigestName picks the label shown to the reader
func DigestName(friendlyName string, feed *feedentities.Feed) string {
	if name := strings.TrimSpace(friendlyName); name != "" {
		return name
	}
	if feed == nil {
		return ""
	}
	if feed.Title != "" {
		return feed.Title
	}
	return feed.URL
}

func formatTime(unix int64, layout string) string {
	if unix <= 0 {
		return "unknown date"
	}
	return time.Unix(unix, 0).UTC().Format(layout)
}
