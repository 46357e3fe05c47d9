// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/pager/lib/clock"
)

// Status is the lifecycle position of a pager.
type Status int

const (
	StatusCreated Status = iota
	StatusRunning
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusRunning:
		return "running"
	case StatusEnded:
		return "ended"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// EndReason records why a session ended.
type EndReason string

const (
	EndStopped    EndReason = "stopped"
	EndTimeout    EndReason = "timeout"
	EndIdle       EndReason = "idle"
	EndClosed     EndReason = "closed"
	EndCanceled   EndReason = "canceled"
	EndSinglePage EndReason = "single_page"
	EndNoPages    EndReason = "no_pages"
)

// cleanupTimeout bounds the final edit and reaction cleanup, which run
// after the session context may already be cancelled.
const cleanupTimeout = 10 * time.Second

// session is the state and lifecycle shared by both pager variants.
type session struct {
	variant      Variant
	pages        []*Embed
	origin       Origin
	editFrom     Message
	timeout      time.Duration
	idleTimeout  time.Duration
	withControls bool

	clock    clock.Clock
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	status  Status
	state   State
	message Message
	reason  EndReason

	stopRequested chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// newSession validates the construction inputs shared by both variants.
// Page footers are annotated only once every check has passed.
func newSession(variant Variant, input any, origin Origin, options Options, surface Surface) (*session, error) {
	pages, err := BuildPages(input)
	if err != nil {
		return nil, err
	}
	switch origin.(type) {
	case MessageOrigin, InteractionOrigin:
	default:
		return nil, fmt.Errorf("%w, received %T", ErrInvalidOrigin, origin)
	}
	if options.EditFrom != nil && options.EditFrom.ID() == "" {
		return nil, ErrInvalidEditFrom
	}

	if options.AppendPageInfo {
		AppendPageInfo(pages, options.PageInfoFormat)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	idleTimeout := options.IdleTimeout
	if idleTimeout < 0 {
		idleTimeout = 0
	}
	sessionClock := options.Clock
	if sessionClock == nil {
		sessionClock = clock.Real()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := options.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &session{
		variant:       variant,
		pages:         pages,
		origin:        origin,
		editFrom:      options.EditFrom,
		timeout:       timeout,
		idleTimeout:   idleTimeout,
		clock:         sessionClock,
		logger:        logger.With("variant", string(variant)),
		observer:      observer,
		state:         NewState(len(pages), surface, options.DisableWrap),
		stopRequested: make(chan struct{}),
		done:          make(chan struct{}),
	}, nil
}

// Pages returns the page store.
func (s *session) Pages() []*Embed { return s.pages }

// Index returns the cursor position.
func (s *session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Index
}

// CurrentPage returns the page under the cursor, or nil for an empty
// page store.
func (s *session) CurrentPage() *Embed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Surface returns the controls as currently displayed.
func (s *session) Surface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Surface
}

// Status returns the lifecycle position.
func (s *session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Message returns the pager message, or nil before Exec.
func (s *session) Message() Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Reason returns why the session ended, or "" while it has not.
func (s *session) Reason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Done is closed when the session has ended and its cleanup is complete.
func (s *session) Done() <-chan struct{} { return s.done }

// Next moves to the next page and edits the message.
func (s *session) Next(ctx context.Context) error {
	return s.navigate(ctx, ActionNext)
}

// Previous moves to the previous page and edits the message.
func (s *session) Previous(ctx context.Context) error {
	return s.navigate(ctx, ActionPrevious)
}

// Stop ends the session and waits for its cleanup. Stopping an ended
// session does nothing.
func (s *session) Stop(ctx context.Context) error {
	switch s.Status() {
	case StatusCreated:
		return ErrNotStarted
	case StatusEnded:
		return nil
	}
	s.stopOnce.Do(func() { close(s.stopRequested) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *session) navigate(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusCreated:
		return ErrNotStarted
	case StatusEnded:
		return ErrSessionEnded
	}
	next := s.state.Apply(action)
	if next == s.state {
		return nil
	}
	s.state = next
	s.observer.ControlUsed(s.variant, action)
	if err := s.message.Edit(ctx, s.viewLocked()); err != nil {
		return fmt.Errorf("pagination: editing message %s: %w", s.message.ID(), err)
	}
	return nil
}

func (s *session) currentLocked() *Embed {
	if s.state.Index < 0 || s.state.Index >= len(s.pages) {
		return nil
	}
	return s.pages[s.state.Index]
}

func (s *session) viewLocked() View {
	view := View{Page: s.currentLocked()}
	if s.withControls {
		view.Controls = s.state.Surface.Controls()
	}
	return view
}

// transmit shows the first view: editing EditFrom when set, otherwise
// answering the interaction or the invoking message.
func (s *session) transmit(ctx context.Context, view View) (Message, error) {
	if s.editFrom != nil {
		if err := s.editFrom.Edit(ctx, view); err != nil {
			return nil, fmt.Errorf("pagination: editing message %s: %w", s.editFrom.ID(), err)
		}
		return s.editFrom, nil
	}
	switch origin := s.origin.(type) {
	case InteractionOrigin:
		if origin.Acknowledged() {
			message, err := origin.EditReply(ctx, view)
			if err != nil {
				return nil, fmt.Errorf("pagination: editing interaction reply: %w", err)
			}
			return message, nil
		}
		message, err := origin.Reply(ctx, view)
		if err != nil {
			return nil, fmt.Errorf("pagination: replying to interaction: %w", err)
		}
		return message, nil
	case MessageOrigin:
		message, err := origin.Send(ctx, view)
		if err != nil {
			return nil, fmt.Errorf("pagination: sending message: %w", err)
		}
		return message, nil
	}
	return nil, ErrInvalidOrigin
}

// startLocked records the running state. The caller holds s.mu.
func (s *session) startLocked(message Message) {
	s.message = message
	s.status = StatusRunning
	s.observer.SessionStarted(s.variant)
	s.logger.Debug("pagination session started",
		"message_id", message.ID(),
		"pages", len(s.pages),
		"timeout", s.timeout,
	)
}

// endLocked records the end and releases waiters. The caller holds s.mu.
func (s *session) endLocked(reason EndReason) {
	s.status = StatusEnded
	s.reason = reason
	s.observer.SessionEnded(s.variant, reason)
	s.logger.Debug("pagination session ended", "reason", string(reason))
	close(s.done)
}

// timers carries the time budget and idle timeout of a running session.
type timers struct {
	lifetime      chan struct{}
	lifetimeTimer *clock.Timer
	idleFired     chan struct{}
	idleTimer     *clock.Timer
	idleTimeout   time.Duration
}

func (s *session) startTimers() *timers {
	t := &timers{
		lifetime:    make(chan struct{}),
		idleFired:   make(chan struct{}, 1),
		idleTimeout: s.idleTimeout,
	}
	t.lifetimeTimer = s.clock.AfterFunc(s.timeout, func() { close(t.lifetime) })
	if t.idleTimeout > 0 {
		t.idleTimer = s.clock.AfterFunc(t.idleTimeout, t.fireIdle)
	}
	return t
}

func (t *timers) fireIdle() {
	select {
	case t.idleFired <- struct{}{}:
	default:
	}
}

// touch restarts the idle timeout after an accepted event.
func (t *timers) touch() {
	if t.idleTimer != nil {
		t.idleTimer.Reset(t.idleTimeout)
	}
}

func (t *timers) stop() {
	t.lifetimeTimer.Stop()
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
}

// consume runs the event loop until the session ends. handle reports
// whether the event was accepted (restarting the idle timeout) and
// whether it ends the session; the ending event is returned.
func consume[E any](ctx context.Context, s *session, t *timers, events <-chan E, handle func(context.Context, E) (accepted, stop bool)) (*E, EndReason) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil, EndClosed
			}
			accepted, stop := handle(ctx, event)
			if stop {
				return &event, EndStopped
			}
			if accepted {
				t.touch()
			}
		case <-t.lifetime:
			return nil, EndTimeout
		case <-t.idleFired:
			return nil, EndIdle
		case <-s.stopRequested:
			return nil, EndStopped
		case <-ctx.Done():
			return nil, EndCanceled
		}
	}
}
