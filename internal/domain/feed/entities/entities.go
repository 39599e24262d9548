package entities

import (
	"database/sql/driver"
	"fmt"

	"github.com/Conte777/NewsFlow/services/feed-service/pkg/dbtype"
)

// FeedType is the syndication format detected for a feed
type FeedType int

const (
	FeedTypeUnknown  FeedType = 0
	FeedTypeAtom     FeedType = 1
	FeedTypeRss      FeedType = 2
	FeedTypeJSONFeed FeedType = 3
)

// FeedTypeFromInt maps a stored integer back to a FeedType
func FeedTypeFromInt(v int64) (FeedType, error) {
	switch FeedType(v) {
	case FeedTypeUnknown, FeedTypeAtom, FeedTypeRss, FeedTypeJSONFeed:
		return FeedType(v), nil
	default:
		return FeedTypeUnknown, fmt.Errorf("unknown feed type %d", v)
	}
}

func (t FeedType) String() string {
	switch t {
	case FeedTypeAtom:
		return "atom"
	case FeedTypeRss:
		return "rss"
	case FeedTypeJSONFeed:
		return "json"
	default:
		return "unknown"
	}
}

// Scan implements sql.Scanner
func (t *FeedType) Scan(src any) error {
	v, err := dbtype.Int64(src)
	if err != nil {
		return err
	}
	ft, err := FeedTypeFromInt(v)
	if err != nil {
		return err
	}
	*t = ft
	return nil
}

// Value implements driver.Valuer
func (t FeedType) Value() (driver.Value, error) {
	return int64(t), nil
}

// Feed is a polled syndication source. Timestamps are unix seconds,
// zero meaning "never".
type Feed struct {
	ID           uint     `gorm:"primaryKey"`
	URL          string   `gorm:"column:url;not null;uniqueIndex"`
	FeedType     FeedType `gorm:"column:feed_type;not null;default:0"`
	Title        string   `gorm:"column:title;not null;default:''"`
	LastChecked  int64    `gorm:"column:last_checked;not null;default:0"`
	LastUpdated  int64    `gorm:"column:last_updated;not null;default:0"`
	ErrorTime    int64    `gorm:"column:error_time;not null;default:0"`
	ErrorMessage string   `gorm:"column:error_message;not null;default:''"`
}

func (Feed) TableName() string {
	return "feeds"
}

// HasError reports whether the last poll failed
func (f *Feed) HasError() bool {
	return f.ErrorTime != 0
}

// FeedItem is one entry of a feed. (FeedID, Link, PubDate) is unique.
type FeedItem struct {
	ID          uint    `gorm:"primaryKey"`
	FeedID      uint    `gorm:"column:feed_id;not null;uniqueIndex:idx_feed_items_identity,priority:1"`
	Title       string  `gorm:"column:title;not null"`
	Link        string  `gorm:"column:link;not null;uniqueIndex:idx_feed_items_identity,priority:2"`
	PubDate     int64   `gorm:"column:pub_date;not null;default:0;uniqueIndex:idx_feed_items_identity,priority:3;index"`
	Description *string `gorm:"column:description"`
	Author      *string `gorm:"column:author"`
}

func (FeedItem) TableName() string {
	return "feed_items"
}

// PartialFeed holds only the feed fields a poll decided to change
type PartialFeed struct {
	FeedType     *FeedType
	Title        *string
	LastChecked  *int64
	LastUpdated  *int64
	ErrorTime    *int64
	ErrorMessage *string
}

// IsEmpty reports whether no field is set
func (p *PartialFeed) IsEmpty() bool {
	return p == nil || (p.FeedType == nil && p.Title == nil && p.LastChecked == nil &&
		p.LastUpdated == nil && p.ErrorTime == nil && p.ErrorMessage == nil)
}

// Columns returns the set fields keyed by column name
func (p *PartialFeed) Columns() map[string]any {
	cols := make(map[string]any)
	if p == nil {
		return cols
	}
	if p.FeedType != nil {
		cols["feed_type"] = *p.FeedType
	}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.LastChecked != nil {
		cols["last_checked"] = *p.LastChecked
	}
	if p.LastUpdated != nil {
		cols["last_updated"] = *p.LastUpdated
	}
	if p.ErrorTime != nil {
		cols["error_time"] = *p.ErrorTime
	}
	if p.ErrorMessage != nil {
		cols["error_message"] = *p.ErrorMessage
	}
	return cols
}

// Apply copies the set fields onto f
func (p *PartialFeed) Apply(f *Feed) {
	if p == nil || f == nil {
		return
	}
	if p.FeedType != nil {
		f.FeedType = *p.FeedType
	}
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.LastChecked != nil {
		f.LastChecked = *p.LastChecked
	}
	if p.LastUpdated != nil {
		f.LastUpdated = *p.LastUpdated
	}
	if p.ErrorTime != nil {
		f.ErrorTime = *p.ErrorTime
	}
	if p.ErrorMessage != nil {
		f.ErrorMessage = *p.ErrorMessage
	}
}

// Merge layers other on top of p; fields set in other win
func (p *PartialFeed) Merge(other *PartialFeed) *PartialFeed {
	out := &PartialFeed{}
	for _, src := range []*PartialFeed{p, other} {
		if src == nil {
			continue
		}
		if src.FeedType != nil {
			out.FeedType = src.FeedType
		}
		if src.Title != nil {
			out.Title = src.Title
		}
		if src.LastChecked != nil {
			out.LastChecked = src.LastChecked
		}
		if src.LastUpdated != nil {
			out.LastUpdated = src.LastUpdated
		}
		if src.ErrorTime != nil {
			out.ErrorTime = src.ErrorTime
		}
		if src.ErrorMessage != nil {
			out.ErrorMessage = src.ErrorMessage
		}
	}
	return out
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
