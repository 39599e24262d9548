package composer

import (
	"strings"
	"unicode/utf16"

	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	"github.com/Conte777/NewsFlow/services/feed-service/pkg/htmltext"
)

const (
	// Separator closes every item block; truncation cuts right after one
	Separator = "─────────────\n"

	telegramExcerptLimit = 200
	telegramTimeLayout   = "2006-01-02 15:04:05"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// TelegramComposer renders a digest as one message in Telegram's HTML subset
type TelegramComposer struct {
	limit  int
	notice string
}

// NewTelegramComposer creates a composer whose output never exceeds limit
// UTF-16 code units, notice included
func NewTelegramComposer(limit int, notice string) *TelegramComposer {
	return &TelegramComposer{limit: limit, notice: notice}
}

// Compose renders d. Only b, i and a tags are emitted and every tag closes
// on the line it opens, so any cut at a line boundary stays well formed.
func (c *TelegramComposer) Compose(d Digest) string {
	header := c.header(d)
	blocks := make([]string, 0, len(d.Items))
	for i := range d.Items {
		blocks = append(blocks, c.block(&d.Items[i]))
	}

	full := header + strings.Join(blocks, "")
	if Length(full) <= c.limit {
		return full
	}

	budget := c.limit - Length(c.notice)
	if budget <= 0 {
		return ""
	}

	// whole item blocks first
	var b strings.Builder
	used := Length(header)
	if used <= budget {
		b.WriteString(header)
		kept := 0
		for _, block := range blocks {
			n := Length(block)
			if used+n > budget {
				break
			}
			b.WriteString(block)
			used += n
			kept++
		}
		if kept > 0 {
			b.WriteString(c.notice)
			return b.String()
		}
	}

	// no block fits: fall back to whole lines
	b.Reset()
	used = 0
	for _, line := range strings.SplitAfter(full, "\n") {
		n := Length(line)
		if used+n > budget {
			break
		}
		b.WriteString(line)
		used += n
	}
	b.WriteString(c.notice)
	return b.String()
}

func (c *TelegramComposer) header(d Digest) string {
	var b strings.Builder
	b.WriteString("<b>📰 ")
	b.WriteString(EscapeText(oneLine(d.Name)))
	b.WriteString("</b>\n")
	if d.FeedURL != "" {
		b.WriteString(`<a href="`)
		b.WriteString(hrefValue(d.FeedURL))
		b.WriteString(`">View feed</a>`)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (c *TelegramComposer) block(item *feedentities.FeedItem) string {
	var b strings.Builder

	b.WriteString(`📄 <a href="`)
	b.WriteString(hrefValue(item.Link))
	b.WriteString(`">`)
	b.WriteString(EscapeText(oneLine(item.Title)))
	b.WriteString("</a>\n")

	b.WriteString("🕐 ")
	b.WriteString(formatTime(item.PubDate, telegramTimeLayout))
	b.WriteString("\n")

	if item.Author != nil && *item.Author != "" {
		b.WriteString("👤 ")
		b.WriteString(EscapeText(oneLine(*item.Author)))
		b.WriteString("\n")
	}

	if item.Description != nil {
		if text := htmltext.ToText(*item.Description); text != "" {
			b.WriteString(EscapeText(htmltext.Excerpt(text, telegramExcerptLimit)))
			b.WriteString("\n")
		}
	}

	b.WriteString(Separator)
	return b.String()
}

// EscapeText escapes the three characters Telegram's HTML parser requires
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Length counts UTF-16 code units, the unit of Telegram's message limit
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// hrefValue keeps the URL as is apart from characters that would end the attribute
func hrefValue(link string) string {
	return strings.NewReplacer(`"`, "%22", "\n", "", "\r", "").Replace(strings.TrimSpace(link))
}

// oneLine keeps tags on a single line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
