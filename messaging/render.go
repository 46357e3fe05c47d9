// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bureau-foundation/pager/lib/pagination"
)

// The goldmark instance is configured once; Convert creates per-call
// state and is safe for concurrent use.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	})
	return markdownInstance
}

// renderMarkdown converts embed markdown to HTML. Goldmark's default
// renderer drops raw HTML from the source. On a conversion error the
// escaped source is returned.
func renderMarkdown(source string) string {
	var buffer bytes.Buffer
	if err := markdown().Convert([]byte(source), &buffer); err != nil {
		return html.EscapeString(source)
	}
	return strings.TrimSpace(buffer.String())
}

// RenderPage converts a page to an m.text message: a plain text body and
// an HTML formatted_body. Description and field values are markdown.
// Matrix has no embeds, so the author, title, fields and footer become
// paragraphs in order.
func RenderPage(page *pagination.Embed) MessageContent {
	if page == nil {
		return NewTextMessage("")
	}
	var plain, formatted []string

	if page.Author != nil && page.Author.Name != "" {
		plain = append(plain, page.Author.Name)
		formatted = append(formatted, "<p><sub>"+html.EscapeString(page.Author.Name)+"</sub></p>")
	}
	if page.Title != "" {
		plain = append(plain, page.Title)
		title := html.EscapeString(page.Title)
		if page.URL != "" {
			title = `<a href="` + html.EscapeString(page.URL) + `">` + title + "</a>"
		}
		formatted = append(formatted, "<h3>"+title+"</h3>")
	}
	if page.Description != "" {
		plain = append(plain, page.Description)
		formatted = append(formatted, renderMarkdown(page.Description))
	}
	for _, field := range page.Fields {
		plain = append(plain, field.Name+"\n"+field.Value)
		formatted = append(formatted, "<p><strong>"+html.EscapeString(field.Name)+"</strong></p>", renderMarkdown(field.Value))
	}
	if page.Image != "" {
		plain = append(plain, page.Image)
		formatted = append(formatted, `<p><a href="`+html.EscapeString(page.Image)+`">`+html.EscapeString(page.Image)+"</a></p>")
	}
	if page.Footer != nil && page.Footer.Text != "" {
		plain = append(plain, page.Footer.Text)
		formatted = append(formatted, "<p><em>"+html.EscapeString(page.Footer.Text)+"</em></p>")
	}

	content := NewTextMessage(strings.Join(plain, "\n\n"))
	content.Format = "org.matrix.custom.html"
	content.FormattedBody = strings.Join(formatted, "\n")
	return content
}
