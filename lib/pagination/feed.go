// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"sync"
)

// feedBuffer is how many undelivered events one feed holds before
// Deliver blocks.
const feedBuffer = 16

// Feeds routes host events to the sessions subscribed to each message.
// Hosts use it to implement ButtonHost.Clicks and
// ReactionHost.Reactions. The zero value is ready to use.
type Feeds[E any] struct {
	mu    sync.Mutex
	feeds map[string]*feed[E]
}

// Subscribe registers a feed for messageID. The returned channel is
// closed once ctx is done. A later subscription for the same message
// replaces the earlier one and closes its channel.
func (f *Feeds[E]) Subscribe(ctx context.Context, messageID string) <-chan E {
	sub := &feed[E]{
		events: make(chan E, feedBuffer),
		done:   ctx.Done(),
		stop:   make(chan struct{}),
	}
	f.mu.Lock()
	if f.feeds == nil {
		f.feeds = make(map[string]*feed[E])
	}
	previous := f.feeds[messageID]
	f.feeds[messageID] = sub
	f.mu.Unlock()
	if previous != nil {
		previous.close()
	}

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.feeds[messageID] == sub {
			delete(f.feeds, messageID)
		}
		f.mu.Unlock()
		sub.close()
	}()
	return sub.events
}

// Subscribed reports whether messageID has a live feed.
func (f *Feeds[E]) Subscribed(messageID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.feeds[messageID]
	return ok
}

// Deliver sends event to the feed for messageID and reports whether one
// existed. It blocks while the feed is full, until the subscriber's
// context is done.
func (f *Feeds[E]) Deliver(messageID string, event E) bool {
	f.mu.Lock()
	sub := f.feeds[messageID]
	f.mu.Unlock()
	if sub == nil {
		return false
	}
	sub.deliver(event)
	return true
}

type feed[E any] struct {
	mu     sync.Mutex
	events chan E
	done   <-chan struct{}
	closed bool

	// stop is closed first so a delivery blocked on a full feed lets go
	// of mu.
	stop     chan struct{}
	stopOnce sync.Once
}

func (s *feed[E]) deliver(event E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- event:
	case <-s.done:
	case <-s.stop:
	}
}

func (s *feed[E]) close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
