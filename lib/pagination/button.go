// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"fmt"
)

// ButtonPager pages through embeds with previous, next, and stop buttons
// attached to the message.
type ButtonPager struct {
	*session

	host           ButtonHost
	allowed        Filter
	errorMessage   string
	removeOnFinish bool
}

// NewButtonPager validates the inputs and builds the button surface.
// pages is flattened by BuildPages. The invoker and AllowedUsers may
// press the buttons; everyone else receives ErrorMessage privately.
func NewButtonPager(host ButtonHost, pages any, origin Origin, options ButtonOptions) (*ButtonPager, error) {
	if host == nil {
		return nil, fmt.Errorf("pagination: button host is required")
	}
	surface, err := buildSurface(buttonDefaults, options.controlOptions())
	if err != nil {
		return nil, err
	}
	s, err := newSession(VariantButton, pages, origin, options.Options, surface)
	if err != nil {
		return nil, err
	}
	s.withControls = true

	errorMessage := options.ErrorMessage
	if errorMessage == "" {
		errorMessage = DefaultErrorMessage
	}
	allowedUsers := append([]string{origin.InvokerID()}, options.AllowedUsers...)

	return &ButtonPager{
		session:        s,
		host:           host,
		allowed:        AllowUsers(allowedUsers...),
		errorMessage:   errorMessage,
		removeOnFinish: options.RemoveButtonsOnFinish,
	}, nil
}

// Exec shows the first page with its buttons and starts handling clicks.
// It returns once the message is on screen; the session continues in the
// background until it ends. Cancelling ctx ends the session.
func (p *ButtonPager) Exec(ctx context.Context) (Message, error) {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusCreated {
		return nil, ErrAlreadyStarted
	}
	if len(s.pages) == 0 {
		return nil, ErrNoPages
	}

	message, err := s.transmit(ctx, s.viewLocked())
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	clicks, err := p.host.Clicks(loopCtx, message)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("pagination: subscribing to clicks on %s: %w", message.ID(), err)
	}

	s.startLocked(message)
	t := s.startTimers()
	go func() {
		last, reason := consume(loopCtx, s, t, clicks, p.handleClick)
		t.stop()
		cancel()
		p.finish(loopCtx, last, reason)
	}()
	return message, nil
}

func (p *ButtonPager) handleClick(ctx context.Context, click Click) (accepted, stop bool) {
	s := p.session
	if !p.allowed(click.UserID) {
		s.observer.Denied(s.variant)
		s.logger.Debug("click from unauthorized user",
			"user_id", click.UserID,
			"custom_id", click.CustomID,
		)
		if err := click.Response.Deny(ctx, p.errorMessage); err != nil {
			s.logger.Warn("sending denial notice failed", "user_id", click.UserID, "error", err)
		}
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	action, ok := ParseAction(click.CustomID)
	if !ok || !s.state.Surface.Enabled(action) {
		// Not a live control of this pager. Acknowledge with the current
		// view so the click does not appear to fail.
		if err := click.Response.Update(ctx, s.viewLocked()); err != nil {
			s.logger.Warn("acknowledging click failed", "custom_id", click.CustomID, "error", err)
		}
		return false, false
	}

	s.observer.ControlUsed(s.variant, action)
	if action == ActionStop {
		return true, true
	}

	s.state = s.state.Apply(action)
	if err := click.Response.Update(ctx, s.viewLocked()); err != nil {
		s.logger.Warn("updating pager message failed",
			"message_id", s.message.ID(),
			"action", action.String(),
			"error", err,
		)
	}
	return true, false
}

// finish disables or removes the buttons with one final edit. When the
// session ended on a stop click, the edit is that click's response. A
// closed click stream means the message now belongs to another pager,
// so it is left alone.
func (p *ButtonPager) finish(ctx context.Context, last *Click, reason EndReason) {
	s := p.session
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Surface = s.state.Surface.finished()
	if reason != EndClosed {
		p.finalEditLocked(ctx, last, reason)
	}
	s.endLocked(reason)
}

func (p *ButtonPager) finalEditLocked(ctx context.Context, last *Click, reason EndReason) {
	s := p.session
	view := View{Page: s.currentLocked()}
	if !p.removeOnFinish {
		view.Controls = s.state.Surface.Controls()
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	var err error
	if last != nil {
		err = last.Response.Update(cleanupCtx, view)
	} else {
		err = s.message.Edit(cleanupCtx, view)
	}
	if err != nil {
		s.logger.Warn("final pager edit failed",
			"message_id", s.message.ID(),
			"reason", string(reason),
			"error", err,
		)
	}
}
