// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/pager/lib/clock"
	"github.com/bureau-foundation/pager/lib/pagination"
)

// DefaultReactionRetention is how long reactions on a message stay
// tracked after its pager stops listening, so that final cleanup can
// still redact them.
const DefaultReactionRetention = time.Minute

// PagerHostConfig configures a PagerHost.
type PagerHostConfig struct {
	// Session sends, edits and redacts events. Required.
	Session Session

	// Logger receives routing diagnostics. Nil uses slog.Default().
	Logger *slog.Logger

	// Clock schedules the release of tracked reactions. Nil uses the
	// real clock.
	Clock clock.Clock

	// ReactionRetention overrides DefaultReactionRetention.
	ReactionRetention time.Duration
}

// PagerHost drives reaction pagers in Matrix rooms. Room events reach it
// through HandleEvent, typically fed from a RoomWatcher.
//
// Matrix reactions are m.annotation events, and removing one means
// redacting that event. The host therefore tracks every reaction event
// on the messages it pages, keyed by event ID.
type PagerHost struct {
	session   Session
	logger    *slog.Logger
	clock     clock.Clock
	retention time.Duration

	feeds pagination.Feeds[pagination.Reaction]

	mu sync.Mutex
	// messages maps a paged message event ID to its reactions.
	messages map[string]*trackedMessage
	// targets maps a reaction event ID to the message it annotates.
	targets map[string]string
}

type trackedMessage struct {
	roomID    string
	reactions map[string]annotation
}

type annotation struct {
	sender string
	key    string
}

var _ pagination.ReactionHost = (*PagerHost)(nil)

// NewPagerHost creates a PagerHost.
func NewPagerHost(config PagerHostConfig) (*PagerHost, error) {
	if config.Session == nil {
		return nil, errors.New("messaging: PagerHostConfig.Session is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hostClock := config.Clock
	if hostClock == nil {
		hostClock = clock.Real()
	}
	retention := config.ReactionRetention
	if retention <= 0 {
		retention = DefaultReactionRetention
	}
	return &PagerHost{
		session:   config.Session,
		logger:    logger,
		clock:     hostClock,
		retention: retention,
		messages:  make(map[string]*trackedMessage),
		targets:   make(map[string]string),
	}, nil
}

// Message is a room message owned by a pager. Edits are m.replace
// events; the event ID stays that of the original message.
type Message struct {
	session Session
	roomID  string
	eventID string
}

var _ pagination.Message = (*Message)(nil)

func (m *Message) ID() string { return m.eventID }

// RoomID returns the room the message was sent to.
func (m *Message) RoomID() string { return m.roomID }

// Edit replaces the message with view's page. Matrix messages carry no
// controls, so view.Controls is ignored.
func (m *Message) Edit(ctx context.Context, view pagination.View) error {
	if _, err := m.session.EditMessage(ctx, m.roomID, m.eventID, RenderPage(view.Page)); err != nil {
		return fmt.Errorf("messaging: editing %s: %w", m.eventID, err)
	}
	return nil
}

// Message names an existing message, for use as Options.EditFrom.
func (h *PagerHost) Message(roomID, eventID string) *Message {
	return &Message{session: h.session, roomID: roomID, eventID: eventID}
}

// eventOrigin answers a command message with a new message in its room.
type eventOrigin struct {
	host   *PagerHost
	roomID string
	sender string
}

// FromEvent returns the origin for a pager invoked by a command message
// in roomID.
func (h *PagerHost) FromEvent(roomID string, event Event) pagination.MessageOrigin {
	if event.RoomID != "" {
		roomID = event.RoomID
	}
	return &eventOrigin{host: h, roomID: roomID, sender: event.Sender}
}

func (o *eventOrigin) InvokerID() string { return o.sender }

func (o *eventOrigin) Send(ctx context.Context, view pagination.View) (pagination.Message, error) {
	eventID, err := o.host.session.SendMessage(ctx, o.roomID, RenderPage(view.Page))
	if err != nil {
		return nil, fmt.Errorf("messaging: sending page to %s: %w", o.roomID, err)
	}
	return o.host.Message(o.roomID, eventID), nil
}

// Reactions subscribes to reactions on message from users other than
// the session's own user.
func (h *PagerHost) Reactions(ctx context.Context, message pagination.Message) (<-chan pagination.Reaction, error) {
	target, err := h.asMessage(message)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	if _, ok := h.messages[target.eventID]; !ok {
		h.messages[target.eventID] = &trackedMessage{roomID: target.roomID, reactions: make(map[string]annotation)}
	}
	h.mu.Unlock()

	events := h.feeds.Subscribe(ctx, target.eventID)
	go func() {
		<-ctx.Done()
		h.clock.AfterFunc(h.retention, func() { h.forget(target.eventID) })
	}()
	return events, nil
}

// HandleEvent routes one room event. Reactions to and redactions of
// reactions on paged messages are delivered; everything else is
// ignored.
func (h *PagerHost) HandleEvent(event Event) {
	switch event.Type {
	case EventTypeReaction:
		h.handleReaction(event)
	case EventTypeRedaction:
		h.handleRedaction(event)
	}
}

func (h *PagerHost) handleReaction(event Event) {
	relation, ok := event.Relation()
	if !ok || relation.RelType != RelationAnnotation || relation.Key == "" {
		return
	}
	h.mu.Lock()
	message, tracked := h.messages[relation.EventID]
	if tracked {
		message.reactions[event.EventID] = annotation{sender: event.Sender, key: relation.Key}
		h.targets[event.EventID] = relation.EventID
	}
	h.mu.Unlock()

	if !tracked || event.Sender == h.session.UserID() {
		return
	}
	h.feeds.Deliver(relation.EventID, pagination.Reaction{
		UserID: event.Sender,
		Emoji:  pagination.Emoji{Name: relation.Key},
	})
}

func (h *PagerHost) handleRedaction(event Event) {
	redacted := event.RedactedEventID()
	h.mu.Lock()
	messageID, ok := h.targets[redacted]
	var removed annotation
	if ok {
		removed = h.messages[messageID].reactions[redacted]
		h.untrackLocked(messageID, redacted)
	}
	h.mu.Unlock()

	if !ok || removed.sender == h.session.UserID() {
		return
	}
	h.feeds.Deliver(messageID, pagination.Reaction{
		UserID:  removed.sender,
		Emoji:   pagination.Emoji{Name: removed.key},
		Removed: true,
	})
}

// React annotates message with emoji. Custom emoji are sent as their
// "name:id" text.
func (h *PagerHost) React(ctx context.Context, message pagination.Message, emoji pagination.Emoji) error {
	target, err := h.asMessage(message)
	if err != nil {
		return err
	}
	key := emoji.String()
	eventID, err := h.session.SendReaction(ctx, target.roomID, target.eventID, key)
	if err != nil {
		return fmt.Errorf("messaging: reacting %s on %s: %w", key, target.eventID, err)
	}
	h.mu.Lock()
	if tracked, ok := h.messages[target.eventID]; ok {
		tracked.reactions[eventID] = annotation{sender: h.session.UserID(), key: key}
		h.targets[eventID] = target.eventID
	}
	h.mu.Unlock()
	return nil
}

// RemoveUserReaction redacts userID's emoji reactions on message.
func (h *PagerHost) RemoveUserReaction(ctx context.Context, message pagination.Message, emoji pagination.Emoji, userID string) error {
	target, err := h.asMessage(message)
	if err != nil {
		return err
	}
	key := emoji.String()
	return h.redact(ctx, target, func(a annotation) bool {
		return a.sender == userID && a.key == key
	})
}

// RemoveAllReactions redacts every tracked reaction on message.
func (h *PagerHost) RemoveAllReactions(ctx context.Context, message pagination.Message) error {
	target, err := h.asMessage(message)
	if err != nil {
		return err
	}
	return h.redact(ctx, target, func(annotation) bool { return true })
}

// redact redacts the tracked reactions on target selected by match. The
// reactions are untracked first so that the redaction echoes from sync
// are not delivered as removals.
func (h *PagerHost) redact(ctx context.Context, target *Message, match func(annotation) bool) error {
	h.mu.Lock()
	var eventIDs []string
	if tracked, ok := h.messages[target.eventID]; ok {
		for eventID, a := range tracked.reactions {
			if match(a) {
				eventIDs = append(eventIDs, eventID)
			}
		}
	}
	for _, eventID := range eventIDs {
		h.untrackLocked(target.eventID, eventID)
	}
	h.mu.Unlock()

	h.logger.Debug("redacting reactions",
		"room_id", target.roomID,
		"message_id", target.eventID,
		"count", len(eventIDs),
	)
	var errs []error
	for _, eventID := range eventIDs {
		if err := h.session.Redact(ctx, target.roomID, eventID, "pager cleanup"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *PagerHost) untrackLocked(messageID, reactionID string) {
	if tracked, ok := h.messages[messageID]; ok {
		delete(tracked.reactions, reactionID)
	}
	delete(h.targets, reactionID)
}

// forget drops the tracking of a message unless a new pager subscribed
// to it in the meantime.
func (h *PagerHost) forget(messageID string) {
	if h.feeds.Subscribed(messageID) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	tracked, ok := h.messages[messageID]
	if !ok {
		return
	}
	for reactionID := range tracked.reactions {
		delete(h.targets, reactionID)
	}
	delete(h.messages, messageID)
}

func (h *PagerHost) asMessage(message pagination.Message) (*Message, error) {
	target, ok := message.(*Message)
	if !ok {
		return nil, fmt.Errorf("messaging: message %T was not created by this host", message)
	}
	if target.eventID == "" {
		return nil, errors.New("messaging: message has no event ID")
	}
	return target, nil
}
