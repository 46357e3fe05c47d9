// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/pager/lib/clock"
	"github.com/bureau-foundation/pager/lib/pagination"
	"github.com/bureau-foundation/pager/lib/testutil"
)

const waitTimeout = 5 * time.Second

const selfID = "@pager:local"

type sentReaction struct {
	roomID, eventID, key string
}

// fakeSession records sends, edits, reactions and redactions.
type fakeSession struct {
	mu        sync.Mutex
	counter   int
	messages  []MessageContent
	edits     []MessageContent
	reactions []sentReaction
	redacted  []string
	redactErr error

	edited chan MessageContent
}

func newFakeSession() *fakeSession {
	return &fakeSession{edited: make(chan MessageContent, 16)}
}

func (f *fakeSession) nextEventIDLocked(prefix string) string {
	f.counter++
	return fmt.Sprintf("$%s%d", prefix, f.counter)
}

func (f *fakeSession) UserID() string { return selfID }

func (f *fakeSession) WhoAmI(context.Context) (string, error) { return selfID, nil }

func (f *fakeSession) SendEvent(ctx context.Context, roomID, eventType string, content any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextEventIDLocked("event"), nil
}

func (f *fakeSession) SendMessage(ctx context.Context, roomID string, content MessageContent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, content)
	return f.nextEventIDLocked("message"), nil
}

func (f *fakeSession) EditMessage(ctx context.Context, roomID, eventID string, content MessageContent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, content)
	f.edited <- content
	return f.nextEventIDLocked("edit"), nil
}

func (f *fakeSession) SendReaction(ctx context.Context, roomID, eventID, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, sentReaction{roomID, eventID, key})
	return f.nextEventIDLocked("reaction"), nil
}

func (f *fakeSession) Redact(ctx context.Context, roomID, eventID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redactErr != nil {
		return f.redactErr
	}
	f.redacted = append(f.redacted, eventID)
	return nil
}

func (f *fakeSession) Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error) {
	return &SyncResponse{}, nil
}

func (f *fakeSession) redactedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := append([]string(nil), f.redacted...)
	sort.Strings(ids)
	return ids
}

func (f *fakeSession) reactionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reactions)
}

// tracking reports how many messages and reactions the host tracks.
func (h *PagerHost) tracking() (messages, reactions int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages), len(h.targets)
}

func reactionEvent(id, sender, target, key string) Event {
	return Event{
		EventID: id,
		Type:    EventTypeReaction,
		Sender:  sender,
		Content: map[string]any{
			"m.relates_to": map[string]any{
				"rel_type": RelationAnnotation,
				"event_id": target,
				"key":      key,
			},
		},
	}
}

func redactionEvent(id, sender, redacts string) Event {
	return Event{
		EventID: id,
		Type:    EventTypeRedaction,
		Sender:  sender,
		Content: map[string]any{"redacts": redacts},
	}
}

func newTestHost(t *testing.T, session *fakeSession, hostClock clock.Clock) *PagerHost {
	t.Helper()
	host, err := NewPagerHost(PagerHostConfig{Session: session, Clock: hostClock})
	if err != nil {
		t.Fatalf("NewPagerHost: %v", err)
	}
	return host
}

func TestNewPagerHostRequiresSession(t *testing.T) {
	if _, err := NewPagerHost(PagerHostConfig{}); err == nil {
		t.Fatal("NewPagerHost without a session succeeded")
	}
}

func TestPagerHostDeliversReactions(t *testing.T) {
	session := newFakeSession()
	host := newTestHost(t, session, nil)
	message := host.Message("!room:local", "$page")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reactions, err := host.Reactions(ctx, message)
	if err != nil {
		t.Fatalf("Reactions: %v", err)
	}

	host.HandleEvent(reactionEvent("$r0", selfID, "$page", "▶"))
	host.HandleEvent(reactionEvent("$r1", "@alice:local", "$other", "▶"))
	host.HandleEvent(messageEvent("$m", "chatter"))
	host.HandleEvent(reactionEvent("$r2", "@alice:local", "$page", "▶"))
	host.HandleEvent(redactionEvent("$x", "@alice:local", "$r2"))
	host.HandleEvent(redactionEvent("$y", "@alice:local", "$unknown"))

	added := testutil.RequireReceive(t, reactions, waitTimeout, "added reaction")
	if added.UserID != "@alice:local" || added.Removed || added.Emoji.Name != "▶" {
		t.Errorf("added = %+v", added)
	}
	removed := testutil.RequireReceive(t, reactions, waitTimeout, "removed reaction")
	if removed.UserID != "@alice:local" || !removed.Removed || removed.Emoji.Name != "▶" {
		t.Errorf("removed = %+v", removed)
	}
	select {
	case extra := <-reactions:
		t.Fatalf("unexpected reaction %+v", extra)
	default:
	}
}

func TestPagerHostRemoveUserReaction(t *testing.T) {
	session := newFakeSession()
	host := newTestHost(t, session, nil)
	message := host.Message("!room:local", "$page")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reactions, _ := host.Reactions(ctx, message)

	host.HandleEvent(reactionEvent("$a1", "@alice:local", "$page", "▶"))
	host.HandleEvent(reactionEvent("$a2", "@alice:local", "$page", "◀"))
	host.HandleEvent(reactionEvent("$b1", "@bob:local", "$page", "▶"))
	for _i := 0; _i < 3; _i++ {
		testutil.RequireReceive(t, reactions, waitTimeout)
	}

	if err := host.RemoveUserReaction(context.Background(), message, pagination.Emoji{Name: "▶"}, "@alice:local"); err != nil {
		t.Fatalf("RemoveUserReaction: %v", err)
	}
	if got := session.redactedIDs(); len(got) != 1 || got[0] != "$a1" {
		t.Fatalf("redacted = %v, want [$a1]", got)
	}

	// The echo of our own redaction is not a user removal.
	host.HandleEvent(redactionEvent("$x", selfID, "$a1"))
	select {
	case extra := <-reactions:
		t.Fatalf("redaction echo delivered: %+v", extra)
	default:
	}
}

func TestPagerHostRemoveAllReactions(t *testing.T) {
	session := newFakeSession()
	host := newTestHost(t, session, nil)
	message := host.Message("!room:local", "$page")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reactions, _ := host.Reactions(ctx, message)

	if err := host.React(context.Background(), message, pagination.Emoji{Name: "▶"}); err != nil {
		t.Fatalf("React: %v", err)
	}
	// The sync echo of our own reaction is tracked once and not delivered.
	host.HandleEvent(reactionEvent("$reaction1", selfID, "$page", "▶"))
	host.HandleEvent(reactionEvent("$a1", "@alice:local", "$page", "◀"))
	testutil.RequireReceive(t, reactions, waitTimeout)

	if err := host.RemoveAllReactions(context.Background(), message); err != nil {
		t.Fatalf("RemoveAllReactions: %v", err)
	}
	got := session.redactedIDs()
	if len(got) != 2 || got[0] != "$a1" || got[1] != "$reaction1" {
		t.Fatalf("redacted = %v, want [$a1 $reaction1]", got)
	}
	if _, tracked := host.tracking(); tracked != 0 {
		t.Errorf("%d reactions still tracked", tracked)
	}
}

func TestPagerHostRedactErrors(t *testing.T) {
	session := newFakeSession()
	session.redactErr = &MatrixError{Code: ErrCodeForbidden, StatusCode: 403}
	host := newTestHost(t, session, nil)
	message := host.Message("!room:local", "$page")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reactions, _ := host.Reactions(ctx, message)
	host.HandleEvent(reactionEvent("$a1", "@alice:local", "$page", "▶"))
	testutil.RequireReceive(t, reactions, waitTimeout)

	err := host.RemoveAllReactions(context.Background(), message)
	if !IsMatrixError(err, ErrCodeForbidden) {
		t.Fatalf("expected M_FORBIDDEN, got %v", err)
	}
}

func TestPagerHostForgetsAfterRetention(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	session := newFakeSession()
	host := newTestHost(t, session, fake)
	message := host.Message("!room:local", "$page")
	ctx, cancel := context.WithCancel(context.Background())
	reactions, _ := host.Reactions(ctx, message)
	host.HandleEvent(reactionEvent("$a1", "@alice:local", "$page", "▶"))
	testutil.RequireReceive(t, reactions, waitTimeout)

	cancel()
	for range reactions {
	}
	fake.WaitForTimers(1)
	if messages, tracked := host.tracking(); messages != 1 || tracked != 1 {
		t.Fatalf("tracking = %d messages, %d reactions before retention", messages, tracked)
	}
	fake.Advance(DefaultReactionRetention)
	if messages, tracked := host.tracking(); messages != 0 || tracked != 0 {
		t.Errorf("tracking = %d messages, %d reactions after retention", messages, tracked)
	}
}

func TestPagerHostRejectsForeignMessage(t *testing.T) {
	host := newTestHost(t, newFakeSession(), nil)
	if err := host.React(context.Background(), foreignMessage{}, pagination.Emoji{Name: "▶"}); err == nil {
		t.Fatal("React on a foreign message succeeded")
	}
	if _, err := host.Reactions(context.Background(), host.Message("!room:local", "")); err == nil {
		t.Fatal("Reactions on an unsent message succeeded")
	}
}

type foreignMessage struct{}

func (foreignMessage) ID() string { return "$x" }

func (foreignMessage) Edit(context.Context, pagination.View) error { return nil }

func TestFromEvent(t *testing.T) {
	session := newFakeSession()
	host := newTestHost(t, session, nil)
	origin := host.FromEvent("!room:local", messageEvent("$cmd", "!pages"))
	if origin.InvokerID() != "@alice:local" {
		t.Errorf("InvokerID = %q", origin.InvokerID())
	}
	message, err := origin.Send(context.Background(), pagination.View{Page: &pagination.Embed{Title: "one"}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if message.ID() == "" || message.(*Message).RoomID() != "!room:local" {
		t.Errorf("message = %+v", message)
	}
	if session.messages[0].Body != "one" {
		t.Errorf("sent body = %q", session.messages[0].Body)
	}
}

func TestReactionPagerThroughPagerHost(t *testing.T) {
	session := newFakeSession()
	host := newTestHost(t, session, nil)
	origin := host.FromEvent("!room:local", messageEvent("$cmd", "!pages"))
	pages := []*pagination.Embed{{Title: "one"}, {Title: "two"}, {Title: "three"}}

	pager, err := pagination.NewReactionPager(host, pages, origin, pagination.ReactionOptions{
		RemoveUserReactions: true,
		RemoveAllReactions:  true,
	})
	if err != nil {
		t.Fatalf("NewReactionPager: %v", err)
	}
	message, err := pager.Exec(context.Background())
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if count := session.reactionCount(); count != 3 {
		t.Fatalf("bot added %d reactions, want 3", count)
	}

	host.HandleEvent(reactionEvent("$a1", "@alice:local", message.ID(), "▶"))
	edit := testutil.RequireReceive(t, session.edited, waitTimeout, "edit after next")
	if edit.Body != "two" {
		t.Errorf("after next, body = %q, want two", edit.Body)
	}

	// Not the invoker: ignored.
	host.HandleEvent(reactionEvent("$b1", "@bob:local", message.ID(), "▶"))

	host.HandleEvent(reactionEvent("$a2", "@alice:local", message.ID(), "❌"))
	testutil.RequireClosed(t, pager.Done(), waitTimeout, "pager end")
	if pager.Reason() != pagination.EndStopped {
		t.Errorf("reason = %s, want stopped", pager.Reason())
	}

	redacted := session.redactedIDs()
	want := map[string]bool{"$a1": true, "$a2": true, "$b1": true}
	for _, id := range redacted {
		delete(want, id)
	}
	if len(want) != 0 {
		t.Errorf("not redacted: %v (redacted %v)", want, redacted)
	}
	if len(redacted) != 6 {
		t.Errorf("redacted %d events, want 6 (3 bot + 3 user)", len(redacted))
	}
	select {
	case extra := <-session.edited:
		t.Errorf("unexpected extra edit %q", extra.Body)
	default:
	}
}
