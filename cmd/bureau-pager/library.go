// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bureau-foundation/pager/lib/deck"
	"github.com/bureau-foundation/pager/lib/pagination"
)

// command is a parsed pager invocation:
//
//	!pages                   whole deck, button pager
//	!pages react             whole deck, reaction pager
//	!pages [react] <chapter> one chapter
type command struct {
	reactions bool
	chapter   string
}

// parseCommand parses body as an invocation of prefix. The prefix must be
// the first word; "react" selects the reaction pager and the remaining
// words name a chapter.
func parseCommand(body, prefix string) (command, bool) {
	fields := strings.Fields(body)
	if prefix == "" || len(fields) == 0 || fields[0] != prefix {
		return command{}, false
	}
	fields = fields[1:]
	var parsed command
	if len(fields) > 0 && strings.EqualFold(fields[0], "react") {
		parsed.reactions = true
		fields = fields[1:]
	}
	parsed.chapter = strings.Join(fields, " ")
	return parsed, true
}

// pager is the part of both pager variants the library drives.
type pager interface {
	Exec(ctx context.Context) (pagination.Message, error)
	Done() <-chan struct{}
	Reason() pagination.EndReason
}

// library starts pagers over the deck and tracks them until they end.
type library struct {
	deck    *deck.Deck
	options pagerOptions
	logger  *slog.Logger

	sessions sync.WaitGroup
}

// pages returns fresh copies of the requested pages. An unknown chapter
// yields a single page listing the chapters that exist.
func (l *library) pages(chapter string) any {
	if chapter == "" {
		return l.deck.Collection()
	}
	if pages, ok := l.deck.Chapter(chapter); ok {
		return pages
	}
	names := make([]string, 0, len(l.deck.Chapters))
	for _, known := range l.deck.Chapters {
		names = append(names, known.Name)
	}
	description := "This deck has no chapters."
	if len(names) > 0 {
		description = "Chapters: " + strings.Join(names, ", ")
	}
	return []*pagination.Embed{{
		Title:       fmt.Sprintf("No chapter named %q", chapter),
		Description: description,
	}}
}

func (l *library) startButton(ctx context.Context, host pagination.ButtonHost, origin pagination.Origin, chapter string) {
	p, err := pagination.NewButtonPager(host, l.pages(chapter), origin, l.options.button)
	if err != nil {
		l.logger.Error("creating button pager failed", "invoker", origin.InvokerID(), "error", err)
		return
	}
	l.run(ctx, pagination.VariantButton, origin, p)
}

func (l *library) startReaction(ctx context.Context, host pagination.ReactionHost, origin pagination.Origin, chapter string) {
	p, err := pagination.NewReactionPager(host, l.pages(chapter), origin, l.options.reactionOptions(origin.InvokerID()))
	if err != nil {
		l.logger.Error("creating reaction pager failed", "invoker", origin.InvokerID(), "error", err)
		return
	}
	l.run(ctx, pagination.VariantReaction, origin, p)
}

// run executes p in the background and waits for its session to end.
func (l *library) run(ctx context.Context, variant pagination.Variant, origin pagination.Origin, p pager) {
	l.sessions.Add(1)
	go func() {
		defer l.sessions.Done()
		message, err := p.Exec(ctx)
		if err != nil {
			l.logger.Error("starting pager failed",
				"variant", variant,
				"invoker", origin.InvokerID(),
				"error", err,
			)
			return
		}
		<-p.Done()
		attrs := []any{"variant", variant, "invoker", origin.InvokerID(), "reason", p.Reason()}
		if message != nil {
			attrs = append(attrs, "message_id", message.ID())
		}
		l.logger.Debug("pager ended", attrs...)
	}()
}

// wait blocks until every started pager has ended.
func (l *library) wait() {
	l.sessions.Wait()
}
