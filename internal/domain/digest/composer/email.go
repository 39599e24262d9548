package composer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Conte777/NewsFlow/services/feed-service/pkg/htmltext"
)

const emailExcerptLimit = 500

var emailTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; line-height: 1.6;">
<div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin-bottom: 30px;">
<h1 style="color: #1f2937; margin: 0 0 10px 0;">{{.Name}}</h1>
<p style="color: #6b7280; margin: 0;">{{.CountLine}}</p>
<p style="color: #6b7280; margin: 5px 0 0 0; font-size: 14px;">Generated on {{.Generated}}</p>
</div>
{{range .Items}}<div class="feed-item" style="margin-bottom: 30px; border-bottom: 1px solid #e5e7eb; padding-bottom: 20px;">
<h3 style="margin: 0 0 10px 0;"><a href="{{.Link}}" style="color: #1f2937; text-decoration: none;">{{.Title}}</a></h3>
<p style="margin: 0 0 10px 0; color: #6b7280; font-size: 14px;">{{.Published}}{{if .Author}} &middot; {{.Author}}{{end}}</p>
{{if .Description}}<p style="margin: 0; color: #374151;">{{.Description}}</p>
{{end}}</div>
{{end}}<hr style="margin: 30px 0; border: none; border-top: 1px solid #e5e7eb;">
<p style="font-size: 12px; color: #6b7280; margin: 0; text-align: center;">Sent by {{.Product}}. Manage your subscriptions in the {{.Product}} dashboard.</p>
</body>
</html>
`))

type emailItem struct {
	Title       string
	Link        template.URL
	Published   string
	Author      string
	Description string
}

type emailView struct {
	Subject   string
	Name      string
	CountLine string
	Generated string
	Product   string
	Items     []emailItem
}

// Email is a rendered digest email
type Email struct {
	Subject string
	Text    string
	HTML    string
}

// EmailComposer renders digests as HTML with a plain text twin
type EmailComposer struct {
	product string
}

// NewEmailComposer creates an email composer signing mails as product
func NewEmailComposer(product string) *EmailComposer {
	return &EmailComposer{product: product}
}

// Subject returns "[name] n new item(s)"
func Subject(name string, count int) string {
	return fmt.Sprintf("[%s] %s", name, countLine(count))
}

func countLine(count int) string {
	if count == 1 {
		return "1 new item"
	}
	return fmt.Sprintf("%d new items", count)
}

// Compose renders d. Descriptions are reduced to text in both parts.
func (c *EmailComposer) Compose(d Digest) (*Email, error) {
	view := emailView{
		Subject:   Subject(d.Name, len(d.Items)),
		Name:      d.Name,
		CountLine: countLine(len(d.Items)),
		Generated: d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Product:   c.product,
		Items:     make([]emailItem, 0, len(d.Items)),
	}

	for _, item := range d.Items {
		ei := emailItem{
			Title:     item.Title,
			Link:      safeURL(item.Link),
			Published: formatTime(item.PubDate, "2006-01-02 15:04 UTC"),
		}
		if item.Author != nil {
			ei.Author = *item.Author
		}
		if item.Description != nil {
			ei.Description = htmltext.Excerpt(htmltext.ToText(*item.Description), emailExcerptLimit)
		}
		view.Items = append(view.Items, ei)
	}

	var html bytes.Buffer
	if err := emailTemplate.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}

	return &Email{
		Subject: view.Subject,
		Text:    plainText(view),
		HTML:    html.String(),
	}, nil
}

func plainText(view emailView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s, generated on %s\n\n", view.Name, view.CountLine, view.Generated)
	for _, item := range view.Items {
		b.WriteString(item.Title)
		b.WriteString("\n")
		b.WriteString(string(item.Link))
		b.WriteString("\n")
		b.WriteString(item.Published)
		if item.Author != "" {
			b.WriteString(" by ")
			b.WriteString(item.Author)
		}
		b.WriteString("\n")
		if item.Description != "" {
			b.WriteString("\n")
			b.WriteString(item.Description)
			b.WriteString("\n")
		}
		b.WriteString("\n----\n\n")
	}
	fmt.Fprintf(&b, "Sent by %s.\n", view.Product)

	return b.String()
}

// safeURL lets http(s) links through as attributes and blanks anything else
func safeURL(link string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(link))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return template.URL(strings.TrimSpace(link))
	}
	return template.URL("#")
}
