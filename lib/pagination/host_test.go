// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/pager/lib/clock"
	"github.com/bureau-foundation/pager/lib/testutil"
)

// waitTimeout bounds every wait on the session goroutine.
const waitTimeout = 5 * time.Second

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testPages returns n pages titled "page 1" through "page n".
func testPages(n int) []*Embed {
	pages := make([]*Embed, n)
	for i := range pages {
		pages[i] = &Embed{Title: fmt.Sprintf("page %d", i+1)}
	}
	return pages
}

// fakeMessage records every edit.
type fakeMessage struct {
	id     string
	edited chan View

	mu      sync.Mutex
	edits   []View
	editErr error
}

func newFakeMessage() *fakeMessage {
	return &fakeMessage{id: testutil.UniqueID("message"), edited: make(chan View, 64)}
}

func (m *fakeMessage) ID() string { return m.id }

func (m *fakeMessage) Edit(ctx context.Context, view View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, view)
	m.edited <- view
	return nil
}

func (m *fakeMessage) editCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edits)
}

// fakeMessageOrigin answers with a fresh fakeMessage.
type fakeMessageOrigin struct {
	invoker string

	mu    sync.Mutex
	sent  []*fakeMessage
	views []View
}

func (o *fakeMessageOrigin) InvokerID() string { return o.invoker }

func (o *fakeMessageOrigin) Send(ctx context.Context, view View) (Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	message := newFakeMessage()
	o.sent = append(o.sent, message)
	o.views = append(o.views, view)
	return message, nil
}

func (o *fakeMessageOrigin) sentCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

// fakeInteractionOrigin records which reply path was taken.
type fakeInteractionOrigin struct {
	invoker      string
	acknowledged bool

	replies     int
	editReplies int
}

func (o *fakeInteractionOrigin) InvokerID() string  { return o.invoker }
func (o *fakeInteractionOrigin) Acknowledged() bool { return o.acknowledged }

func (o *fakeInteractionOrigin) Reply(ctx context.Context, view View) (Message, error) {
	o.replies++
	return newFakeMessage(), nil
}

func (o *fakeInteractionOrigin) EditReply(ctx context.Context, view View) (Message, error) {
	o.editReplies++
	return newFakeMessage(), nil
}

// bareOrigin is an Origin that can neither send nor reply.
type bareOrigin struct{}

func (bareOrigin) InvokerID() string { return "alice" }

// fakeButtonHost hands the session a channel the test writes to.
type fakeButtonHost struct {
	clicks chan Click
}

func newFakeButtonHost() *fakeButtonHost {
	return &fakeButtonHost{clicks: make(chan Click)}
}

func (h *fakeButtonHost) Clicks(ctx context.Context, message Message) (<-chan Click, error) {
	return h.clicks, nil
}

// fakeResponder records the answer to one or more clicks.
type fakeResponder struct {
	updates chan View
	denials chan string
}

func newFakeResponder() *fakeResponder {
	return &fakeResponder{updates: make(chan View, 16), denials: make(chan string, 16)}
}

func (r *fakeResponder) Update(ctx context.Context, view View) error {
	r.updates <- view
	return nil
}

func (r *fakeResponder) Deny(ctx context.Context, content string) error {
	r.denials <- content
	return nil
}

// fakeReactionHost hands the session a channel the test writes to and
// records reaction management calls.
type fakeReactionHost struct {
	reactions chan Reaction

	mu          sync.Mutex
	reacted     []Emoji
	removedUser []Reaction
	removedAll  int
}

func newFakeReactionHost() *fakeReactionHost {
	return &fakeReactionHost{reactions: make(chan Reaction)}
}

func (h *fakeReactionHost) Reactions(ctx context.Context, message Message) (<-chan Reaction, error) {
	return h.reactions, nil
}

func (h *fakeReactionHost) React(ctx context.Context, message Message, emoji Emoji) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reacted = append(h.reacted, emoji)
	return nil
}

func (h *fakeReactionHost) RemoveUserReaction(ctx context.Context, message Message, emoji Emoji, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removedUser = append(h.removedUser, Reaction{UserID: userID, Emoji: emoji})
	return nil
}

func (h *fakeReactionHost) RemoveAllReactions(ctx context.Context, message Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removedAll++
	return nil
}

func (h *fakeReactionHost) snapshot() (reacted []Emoji, removedUser []Reaction, removedAll int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Emoji(nil), h.reacted...), append([]Reaction(nil), h.removedUser...), h.removedAll
}

// recordingObserver counts lifecycle notifications.
type recordingObserver struct {
	mu       sync.Mutex
	started  int
	controls map[Action]int
	denied   int
	ended    []EndReason
}

func (o *recordingObserver) SessionStarted(Variant) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) ControlUsed(_ Variant, action Action) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.controls == nil {
		o.controls = make(map[Action]int)
	}
	o.controls[action]++
}

func (o *recordingObserver) Denied(Variant) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.denied++
}

func (o *recordingObserver) SessionEnded(_ Variant, reason EndReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ended = append(o.ended, reason)
}

func (o *recordingObserver) endedWith() []EndReason {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]EndReason(nil), o.ended...)
}

// testOptions returns Options driven by a fake clock.
func testOptions(fake *clock.FakeClock) Options {
	return Options{Clock: fake, Timeout: 90 * time.Second}
}

// requireTitle fails unless view shows the page with the given title.
func requireTitle(t *testing.T, view View, want string) {
	t.Helper()
	if view.Page == nil {
		t.Fatalf("view has no page, want %q", want)
	}
	if view.Page.Title != want {
		t.Fatalf("view shows %q, want %q", view.Page.Title, want)
	}
}

// controlDisabled returns the Disabled flag of action within controls.
func controlDisabled(t *testing.T, controls []Control, action Action) bool {
	t.Helper()
	for _, control := range controls {
		if control.Action == action {
			return control.Disabled
		}
	}
	t.Fatalf("control %s not present in %v", action, controls)
	return false
}
