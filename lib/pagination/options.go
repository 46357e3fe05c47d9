// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/pager/lib/clock"
)

// DefaultTimeout is the session time budget when none is configured.
const DefaultTimeout = 90 * time.Second

// DefaultErrorMessage is the denial notice shown to unauthorized users of
// a button pager.
const DefaultErrorMessage = "You cannot use this component!"

// Options are shared by both pager variants.
type Options struct {
	// DisableWrap clamps the cursor at the first and last page and
	// disables the control pointing past the boundary.
	DisableWrap bool

	// Timeout is the session time budget measured from Exec. Zero or
	// negative selects DefaultTimeout.
	Timeout time.Duration

	// IdleTimeout ends the session when no accepted control event arrives
	// for this long. Zero disables it.
	IdleTimeout time.Duration

	// AppendPageInfo writes "page X of N" into every page footer at
	// construction.
	AppendPageInfo bool

	// PageInfoFormat replaces DefaultPageInfoFormat. %page and %total are
	// substituted.
	PageInfoFormat string

	// Previous, Next, and Stop override the control defaults.
	Previous ControlOptions
	Next     ControlOptions
	Stop     ControlOptions

	// EditFrom, when set, is edited to show the first page instead of
	// answering the origin with a new message.
	EditFrom Message

	// Logger receives session logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Clock drives the timeouts. Nil uses clock.Real().
	Clock clock.Clock

	// Observer receives lifecycle notifications. Nil discards them.
	Observer Observer
}

func (o Options) controlOptions() [actionCount]ControlOptions {
	return [actionCount]ControlOptions{
		ActionPrevious: o.Previous,
		ActionNext:     o.Next,
		ActionStop:     o.Stop,
	}
}

// ButtonOptions configure a ButtonPager.
type ButtonOptions struct {
	Options

	// ErrorMessage is sent privately to users who may not drive the
	// pager. Empty selects DefaultErrorMessage.
	ErrorMessage string

	// AllowedUsers may drive the pager in addition to the invoker.
	AllowedUsers []string

	// DisableButtonsOnFinish disables every button when the session ends.
	// Buttons are disabled at the end unless RemoveButtonsOnFinish is set,
	// so this only documents intent.
	DisableButtonsOnFinish bool

	// RemoveButtonsOnFinish removes the buttons when the session ends.
	RemoveButtonsOnFinish bool
}

// ReactionOptions configure a ReactionPager.
type ReactionOptions struct {
	Options

	// Filter decides whose reactions are honoured. Nil allows only the
	// invoker.
	Filter Filter

	// IncludePrevious and IncludeStop attach the previous and stop
	// reactions. Nil means true. False is equivalent to Exclude on the
	// control options.
	IncludePrevious *bool
	IncludeStop     *bool

	// RemoveUserReactions removes each honoured reaction after acting on
	// it, so the user can press the same reaction again.
	RemoveUserReactions bool

	// RemoveAllReactions clears every reaction when the session ends.
	RemoveAllReactions bool
}

// Bool returns a pointer to b, for the optional boolean options.
func Bool(b bool) *bool { return &b }

var (
	buttonDefaults = [actionCount]controlDefaults{
		ActionPrevious: {label: "◀", style: StyleSecondary},
		ActionNext:     {label: "▶", style: StyleSecondary},
		ActionStop:     {label: "❌", style: StyleDanger},
	}
	reactionDefaults = [actionCount]controlDefaults{
		ActionPrevious: {emoji: Emoji{Name: "◀"}},
		ActionNext:     {emoji: Emoji{Name: "▶"}},
		ActionStop:     {emoji: Emoji{Name: "❌"}},
	}
)
