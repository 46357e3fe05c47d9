// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Embed is one page: a rich message card. Field names follow the common
// shape of chat embeds so that hosts can map them directly.
type Embed struct {
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`
	Color       int          `json:"color,omitempty" yaml:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty" yaml:"timestamp,omitempty"` // RFC 3339
	Author      *EmbedAuthor `json:"author,omitempty" yaml:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty" yaml:"fields,omitempty"`
	Image       string       `json:"image,omitempty" yaml:"image,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// EmbedAuthor is the author line of an embed.
type EmbedAuthor struct {
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// EmbedField is a titled block of text within an embed.
type EmbedField struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Inline bool   `json:"inline,omitempty" yaml:"inline,omitempty"`
}

// EmbedFooter is the footer line of an embed. Page numbering is written
// here by AppendPageInfo.
type EmbedFooter struct {
	Text    string `json:"text" yaml:"text"`
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// Clone returns a deep copy of the embed.
func (e *Embed) Clone() *Embed {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Author != nil {
		author := *e.Author
		clone.Author = &author
	}
	if e.Footer != nil {
		footer := *e.Footer
		clone.Footer = &footer
	}
	if e.Fields != nil {
		clone.Fields = append([]EmbedField(nil), e.Fields...)
	}
	return &clone
}

// BuildPages flattens a page collection into the ordered page store.
//
// Accepted shapes are []*Embed, [][]*Embed, and []any whose elements are
// *Embed or []*Embed. One level of nesting is flattened; order is
// preserved. Anything else, including a single *Embed, fails with
// ErrNotCollection. The returned slice is new, but the embeds are shared
// with the input.
func BuildPages(input any) ([]*Embed, error) {
	switch pages := input.(type) {
	case []*Embed:
		return append([]*Embed(nil), pages...), nil
	case [][]*Embed:
		var flat []*Embed
		for _, group := range pages {
			flat = append(flat, group...)
		}
		return flat, nil
	case []any:
		var flat []*Embed
		for index, item := range pages {
			switch value := item.(type) {
			case *Embed:
				flat = append(flat, value)
			case []*Embed:
				flat = append(flat, value...)
			default:
				return nil, fmt.Errorf("%w: element %d is %T", ErrNotCollection, index, item)
			}
		}
		return flat, nil
	default:
		return nil, fmt.Errorf("%w, received %T", ErrNotCollection, input)
	}
}

// DefaultPageInfoFormat is the footer annotation used when no format is
// configured.
const DefaultPageInfoFormat = "Page %page of %total"

// pageInfoSeparator sits between the default annotation and existing
// footer text: an en quad on each side of a bar.
const pageInfoSeparator = "\u2000|\u2000"

// AppendPageInfo writes "page X of N" into the footer of every page,
// in place. An empty format selects DefaultPageInfoFormat, which is
// followed by a separator when the footer already has text; a custom
// format is used verbatim. The placeholders %page (1-based) and %total
// are substituted and the result is placed before any existing footer
// text.
func AppendPageInfo(pages []*Embed, format string) {
	total := strconv.Itoa(len(pages))
	for index, page := range pages {
		if page == nil {
			continue
		}
		if page.Footer == nil {
			page.Footer = &EmbedFooter{}
		}
		pageFormat := format
		if pageFormat == "" {
			pageFormat = DefaultPageInfoFormat
			if page.Footer.Text != "" {
				pageFormat += pageInfoSeparator
			}
		}
		replacer := strings.NewReplacer("%page", strconv.Itoa(index+1), "%total", total)
		page.Footer.Text = replacer.Replace(pageFormat) + page.Footer.Text
	}
}
