package composer

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
)

const notice = "<i>... more items truncated ...</i>"

func manyItems(n int) []feedentities.FeedItem {
	items := make([]feedentities.FeedItem, 0, n)
	for i := range n {
		desc := fmt.Sprintf("<p>Résumé %d: %s</p>", i, strings.Repeat("naïve café 🚀 ", 30))
		author := "Zoë"
		items = append(items, feedentities.FeedItem{
			ID:          uint(i + 1),
			FeedID:      1,
			Title:       fmt.Sprintf("Item %d & <friends>", i),
			Link:        fmt.Sprintf("https://example.com/posts/%d?a=1&b=2", i),
			PubDate:     int64(1_700_000_000 + i),
			Description: &desc,
			Author:      &author,
		})
	}
	return items
}

func requireBalanced(t *testing.T, msg string) {
	t.Helper()
	require.Equal(t, strings.Count(msg, "<b>"), strings.Count(msg, "</b>"))
	require.Equal(t, strings.Count(msg, "<i>"), strings.Count(msg, "</i>"))
	require.Equal(t, strings.Count(msg, "<a "), strings.Count(msg, "</a>"))
}

func TestTelegramCompose_FitsWithoutTruncation(t *testing.T) {
	c := NewTelegramComposer(3900, notice)
	msg := c.Compose(Digest{Name: "Example", FeedURL: "https://example.com/feed", Items: manyItems(2)})

	require.True(t, strings.HasPrefix(msg, "<b>📰 Example</b>\n<a href=\"https://example.com/feed\">View feed</a>\n\n"))
	require.NotContains(t, msg, notice)
	require.Equal(t, 2, strings.Count(msg, Separator))
	require.True(t, strings.HasSuffix(msg, Separator))
}

func TestTelegramCompose_EscapesTextButNotHref(t *testing.T) {
	c := NewTelegramComposer(3900, notice)
	msg := c.Compose(Digest{Name: "R&D <news>", Items: manyItems(1)})

	require.Contains(t, msg, "<b>📰 R&amp;D &lt;news&gt;</b>")
	require.Contains(t, msg, `<a href="https://example.com/posts/0?a=1&b=2">Item 0 &amp; &lt;friends&gt;</a>`)
	require.Contains(t, msg, "👤 Zoë\n")
	require.Contains(t, msg, "🕐 2023-11-14 22:13:20\n")
	require.NotContains(t, msg, "<p>")
	require.NotContains(t, msg, "View feed")
}

func TestTelegramCompose_DescriptionExcerpt(t *testing.T) {
	desc := strings.Repeat("é", 300)
	items := []feedentities.FeedItem{{Title: "t", Link: "https://x.example/", Description: &desc}}

	msg := NewTelegramComposer(3900, notice).Compose(Digest{Name: "n", Items: items})

	var line string
	for _, l := range strings.Split(msg, "\n") {
		if strings.HasPrefix(l, "é") {
			line = l
		}
	}
	require.Equal(t, 200, utf8.RuneCountInString(line))
	require.True(t, strings.HasSuffix(line, "..."))
}

func TestTelegramCompose_FiftyItemsTruncatedAtItemBoundary(t *testing.T) {
	c := NewTelegramComposer(3900, notice)
	items := manyItems(50)

	full := NewTelegramComposer(1<<20, notice).Compose(Digest{Name: "Big", Items: items})
	require.Greater(t, Length(full), 4096)

	msg := c.Compose(Digest{Name: "Big", FeedURL: "https://example.com/feed", Items: items})

	require.LessOrEqual(t, Length(msg), 3900)
	require.True(t, utf8.ValidString(msg))
	require.True(t, strings.HasSuffix(msg, notice))
	require.True(t, strings.HasSuffix(strings.TrimSuffix(msg, notice), Separator))
	require.Greater(t, strings.Count(msg, Separator), 0)
	require.Less(t, strings.Count(msg, Separator), 50)
	requireBalanced(t, msg)
}

func TestTelegramCompose_FallsBackToLineBoundary(t *testing.T) {
	desc := strings.Repeat("🚀", 300)
	items := []feedentities.FeedItem{{Title: "Rocket", Link: "https://x.example/", Description: &desc}}

	c := NewTelegramComposer(300, notice)
	msg := c.Compose(Digest{Name: "Space", Items: items})

	require.LessOrEqual(t, Length(msg), 300)
	require.True(t, utf8.ValidString(msg))
	require.True(t, strings.HasSuffix(msg, notice))
	require.Contains(t, msg, `<a href="https://x.example/">Rocket</a>`)
	require.NotContains(t, msg, "🚀🚀")
	requireBalanced(t, msg)
}

func TestTelegramCompose_NoticeLongerThanLimit(t *testing.T) {
	c := NewTelegramComposer(10, notice)
	require.Empty(t, c.Compose(Digest{Name: "x", Items: manyItems(3)}))
}

func TestLength_CountsUTF16Units(t *testing.T) {
	require.Equal(t, 3, Length("abc"))
	require.Equal(t, 1, Length("é"))
	require.Equal(t, 2, Length("🚀"))
	require.Equal(t, 14, Length(Separator))
}

func TestEmailCompose(t *testing.T) {
	c := NewEmailComposer("NewsFlow")
	items := manyItems(3)
	items[2].Link = "javascript:alert(1)"

	email, err := c.Compose(Digest{Name: "Example", Items: items, GeneratedAt: time.Unix(1_700_000_000, 0)})
	require.NoError(t, err)

	require.Equal(t, "[Example] 3 new items", email.Subject)
	require.Equal(t, 3, strings.Count(email.HTML, `<div class="feed-item"`))
	require.Contains(t, email.HTML, "Item 0 &amp; &lt;friends&gt;")
	require.Contains(t, email.HTML, "Generated on 2023-11-14 22:13 UTC")
	require.NotContains(t, email.HTML, "<p>Résumé")
	require.NotContains(t, email.HTML, "javascript:")

	require.Contains(t, email.Text, "Item 1 & <friends>")
	require.Contains(t, email.Text, "https://example.com/posts/1?a=1&b=2")
	require.Contains(t, email.Text, "Résumé 1: naïve café")
	require.Contains(t, email.Text, "by Zoë")
	require.NotContains(t, email.Text, "<p>")
}

func TestSubject(t *testing.T) {
	require.Equal(t, "[Blog] 1 new item", Subject("Blog", 1))
	require.Equal(t, "[Blog] 12 new items", Subject("Blog", 12))
}

func TestDigestName(t *testing.T) {
	feed := &feedentities.Feed{URL: "https://example.com/feed", Title: "Example"}
	require.Equal(t, "Mine", DigestName(" Mine ", feed))
	require.Equal(t, "Example", DigestName("", feed))
	require.Equal(t, "https://example.com/feed", DigestName("", &feedentities.Feed{URL: "https://example.com/feed"}))
	require.Empty(t, DigestName("", nil))
}
