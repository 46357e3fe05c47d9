// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"fmt"
)

// ReactionPager pages through embeds with emoji reactions on the
// message. Adding or removing a control reaction both count as a press.
type ReactionPager struct {
	*session

	host                ReactionHost
	filter              Filter
	removeUserReactions bool
	removeAllReactions  bool
}

// NewReactionPager validates the inputs and builds the reaction surface.
// pages is flattened by BuildPages. By default only the invoker drives
// the pager; set Filter to widen or narrow that.
func NewReactionPager(host ReactionHost, pages any, origin Origin, options ReactionOptions) (*ReactionPager, error) {
	if host == nil {
		return nil, fmt.Errorf("pagination: reaction host is required")
	}
	controlOptions := options.controlOptions()
	if options.IncludePrevious != nil && !*options.IncludePrevious {
		controlOptions[ActionPrevious].Exclude = true
	}
	if options.IncludeStop != nil && !*options.IncludeStop {
		controlOptions[ActionStop].Exclude = true
	}
	surface, err := buildSurface(reactionDefaults, controlOptions)
	if err != nil {
		return nil, err
	}
	s, err := newSession(VariantReaction, pages, origin, options.Options, surface)
	if err != nil {
		return nil, err
	}

	filter := options.Filter
	if filter == nil {
		filter = OnlyUser(origin.InvokerID())
	}

	return &ReactionPager{
		session:             s,
		host:                host,
		filter:              filter,
		removeUserReactions: options.RemoveUserReactions,
		removeAllReactions:  options.RemoveAllReactions,
	}, nil
}

// Exec shows the first page, attaches the control reactions, and starts
// handling reactions. An empty page store does nothing; a single page is
// shown without reactions and the session ends immediately. Otherwise
// the session continues in the background after Exec returns.
// Cancelling ctx ends the session.
func (p *ReactionPager) Exec(ctx context.Context) (Message, error) {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusCreated {
		return nil, ErrAlreadyStarted
	}
	if len(s.pages) == 0 {
		s.observer.SessionStarted(s.variant)
		s.endLocked(EndNoPages)
		return nil, nil
	}

	message, err := s.transmit(ctx, s.viewLocked())
	if err != nil {
		return nil, err
	}
	if len(s.pages) == 1 {
		s.startLocked(message)
		s.endLocked(EndSinglePage)
		return message, nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	reactions, err := p.host.Reactions(loopCtx, message)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("pagination: subscribing to reactions on %s: %w", message.ID(), err)
	}

	for _, control := range s.state.Surface.Controls() {
		if err := p.host.React(ctx, message, control.Emoji); err != nil {
			s.logger.Warn("adding control reaction failed",
				"message_id", message.ID(),
				"emoji", control.Emoji.String(),
				"error", err,
			)
		}
	}

	s.startLocked(message)
	t := s.startTimers()
	go func() {
		_, reason := consume(loopCtx, s, t, reactions, p.handleReaction)
		t.stop()
		cancel()
		p.finish(loopCtx, reason)
	}()
	return message, nil
}

func (p *ReactionPager) handleReaction(ctx context.Context, reaction Reaction) (accepted, stop bool) {
	s := p.session
	if reaction.Removed && p.removeUserReactions {
		// Removals are the echo of our own cleanup.
		return false, false
	}
	if !p.filter(reaction.UserID) {
		s.observer.Denied(s.variant)
		s.logger.Debug("reaction from unauthorized user",
			"user_id", reaction.UserID,
			"emoji", reaction.Emoji.String(),
		)
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	control, ok := s.state.Surface.match(reaction.Emoji)
	if !ok {
		return false, false
	}
	if p.removeUserReactions {
		if err := p.host.RemoveUserReaction(ctx, s.message, reaction.Emoji, reaction.UserID); err != nil {
			s.logger.Warn("removing user reaction failed",
				"message_id", s.message.ID(),
				"user_id", reaction.UserID,
				"error", err,
			)
		}
	}
	if control.Disabled {
		return false, false
	}

	s.observer.ControlUsed(s.variant, control.Action)
	if control.Action == ActionStop {
		return true, true
	}

	next := s.state.Apply(control.Action)
	moved := next.Index != s.state.Index
	s.state = next
	if moved {
		if err := s.message.Edit(ctx, s.viewLocked()); err != nil {
			s.logger.Warn("updating pager message failed",
				"message_id", s.message.ID(),
				"action", control.Action.String(),
				"error", err,
			)
		}
	}
	return true, false
}

// finish clears the reactions when configured. The page itself is left
// as it is, and so are the reactions once another pager has taken over
// the message.
func (p *ReactionPager) finish(ctx context.Context, reason EndReason) {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.removeAllReactions && reason != EndClosed {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		if err := p.host.RemoveAllReactions(cleanupCtx, s.message); err != nil {
			s.logger.Warn("removing reactions failed",
				"message_id", s.message.ID(),
				"reason", string(reason),
				"error", err,
			)
		}
	}
	s.state.Surface = s.state.Surface.finished()
	s.endLocked(reason)
}
