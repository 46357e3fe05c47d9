// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package deck loads the page decks served by the pager bot.
//
// A deck is authored as JSONC (JSON extended with comments and trailing
// commas) or YAML:
//
//	{
//	  "title": "Handbook",
//	  "pages": [{"title": "Welcome", "description": "..."}],
//	  "chapters": [
//	    {"name": "Setup", "pages": [{"title": "Install"}, {"title": "Configure"}]},
//	  ],
//	}
//
// Loose pages come first, followed by each chapter's pages in order.
// Page fields use the pagination.Embed names. Every session needs its
// own copy of the pages because page numbering is written into the
// footers, so [Deck.Collection] returns fresh copies on each call.
package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pager/lib/pagination"
)

// ErrEmpty is returned for a deck without any pages.
var ErrEmpty = errors.New("deck: no pages")

// Deck is a parsed deck file.
type Deck struct {
	Title    string              `json:"title,omitempty" yaml:"title,omitempty"`
	Pages    []*pagination.Embed `json:"pages,omitempty" yaml:"pages,omitempty"`
	Chapters []Chapter           `json:"chapters,omitempty" yaml:"chapters,omitempty"`
}

// Chapter is a named run of pages.
type Chapter struct {
	Name  string              `json:"name" yaml:"name"`
	Pages []*pagination.Embed `json:"pages" yaml:"pages"`
}

// Format is the encoding of a deck file.
type Format int

const (
	FormatJSONC Format = iota
	FormatYAML
)

// FormatFromPath picks the format from the file extension. .json and
// .jsonc are JSONC; .yaml and .yml are YAML.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("deck: unsupported file extension %q (want .json, .jsonc, .yaml, or .yml)", filepath.Ext(path))
	}
}

// Parse decodes and validates a deck.
func Parse(data []byte, format Format) (*Deck, error) {
	var deck Deck
	switch format {
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &deck); err != nil {
			return nil, fmt.Errorf("deck: parsing JSONC: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("deck: parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("deck: unknown format %d", format)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// ReadFile reads and parses the deck at path.
func ReadFile(path string) (*Deck, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deck: reading %s: %w", path, err)
	}
	deck, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return deck, nil
}

// Validate rejects decks without pages and pages with nothing to show.
func (d *Deck) Validate() error {
	var errs []error
	check := func(where string, pages []*pagination.Embed) {
		for index, page := range pages {
			if page == nil || isBlank(page) {
				errs = append(errs, fmt.Errorf("deck: %s page %d is empty", where, index+1))
			}
		}
	}
	check("loose", d.Pages)
	for index, chapter := range d.Chapters {
		if chapter.Name == "" {
			errs = append(errs, fmt.Errorf("deck: chapter %d has no name", index+1))
		}
		check(fmt.Sprintf("chapter %q", chapter.Name), chapter.Pages)
	}
	if d.Len() == 0 {
		errs = append(errs, ErrEmpty)
	}
	return errors.Join(errs...)
}

func isBlank(page *pagination.Embed) bool {
	return page.Title == "" && page.Description == "" && len(page.Fields) == 0 &&
		page.Image == "" && page.Thumbnail == ""
}

// Len returns the number of pages across loose pages and chapters.
func (d *Deck) Len() int {
	total := len(d.Pages)
	for _, chapter := range d.Chapters {
		total += len(chapter.Pages)
	}
	return total
}

// Collection returns deep copies of the pages as a nested collection:
// the loose pages, then one group per chapter. Pass it straight to a
// pager constructor, which flattens it.
func (d *Deck) Collection() [][]*pagination.Embed {
	groups := make([][]*pagination.Embed, 0, len(d.Chapters)+1)
	groups = append(groups, cloneAll(d.Pages))
	for _, chapter := range d.Chapters {
		groups = append(groups, cloneAll(chapter.Pages))
	}
	return groups
}

// Chapter returns deep copies of the named chapter's pages. Names match
// case-insensitively.
func (d *Deck) Chapter(name string) ([]*pagination.Embed, bool) {
	for _, chapter := range d.Chapters {
		if strings.EqualFold(chapter.Name, name) {
			return cloneAll(chapter.Pages), true
		}
	}
	return nil, false
}

func cloneAll(pages []*pagination.Embed) []*pagination.Embed {
	clones := make([]*pagination.Embed, len(pages))
	for index, page := range pages {
		clones[index] = page.Clone()
	}
	return clones
}
