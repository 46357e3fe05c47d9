// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import "context"

// View is what a pager wants displayed: one page and the controls to
// attach to it. A nil or empty Controls removes all controls.
type View struct {
	Page     *Embed
	Controls []Control
}

// Message is a sent chat message that the pager owns and edits in place.
type Message interface {
	// ID returns the platform identifier of the message. Empty means the
	// value does not refer to a sent message.
	ID() string

	// Edit replaces the message content with view.
	Edit(ctx context.Context, view View) error
}

// Origin describes where a pager was invoked and by whom. Concrete
// origins implement MessageOrigin or InteractionOrigin.
type Origin interface {
	// InvokerID returns the user that invoked the pager. The invoker is
	// always authorized to drive it.
	InvokerID() string
}

// MessageOrigin is a chat message that invoked the pager. The pager
// answers with a new message in the same channel or room.
type MessageOrigin interface {
	Origin
	Send(ctx context.Context, view View) (Message, error)
}

// InteractionOrigin is a command interaction that invoked the pager.
type InteractionOrigin interface {
	Origin

	// Acknowledged reports whether the interaction was already deferred
	// or replied to, in which case the pager edits the reply.
	Acknowledged() bool

	Reply(ctx context.Context, view View) (Message, error)
	EditReply(ctx context.Context, view View) (Message, error)
}

// Click is one component press on a pager message.
type Click struct {
	UserID   string
	CustomID string

	// Response answers the interaction that carried the click.
	Response ClickResponder
}

// ClickResponder answers a click. Every click must be answered exactly
// once.
type ClickResponder interface {
	// Update answers by editing the message the component belongs to.
	Update(ctx context.Context, view View) error

	// Deny answers with a notice visible only to the clicking user.
	Deny(ctx context.Context, content string) error
}

// ButtonHost delivers component clicks.
type ButtonHost interface {
	// Clicks subscribes to clicks on message. The channel is closed once
	// ctx is done.
	Clicks(ctx context.Context, message Message) (<-chan Click, error)
}

// Reaction is one reaction added to or removed from a pager message.
type Reaction struct {
	UserID  string
	Emoji   Emoji
	Removed bool
}

// ReactionHost delivers reactions and manipulates the reactions on a
// message.
type ReactionHost interface {
	// Reactions subscribes to reactions on message from users other than
	// the bot itself. The channel is closed once ctx is done.
	Reactions(ctx context.Context, message Message) (<-chan Reaction, error)

	// React adds the bot's reaction.
	React(ctx context.Context, message Message, emoji Emoji) error

	// RemoveUserReaction removes one user's reaction.
	RemoveUserReaction(ctx context.Context, message Message, emoji Emoji, userID string) error

	// RemoveAllReactions removes every reaction from the message.
	RemoveAllReactions(ctx context.Context, message Message) error
}
