// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import "errors"

// Configuration errors. Constructors return these (wrapped with detail);
// test with errors.Is.
var (
	// ErrNotCollection is returned when the page input is not a
	// collection of embeds.
	ErrNotCollection = errors.New("pagination: pages must be a collection of embeds")

	// ErrInvalidOrigin is returned when the origin is neither a
	// MessageOrigin nor an InteractionOrigin.
	ErrInvalidOrigin = errors.New("pagination: origin must be a message or an interaction")

	// ErrInvalidEditFrom is returned when EditFrom does not identify a
	// sent message.
	ErrInvalidEditFrom = errors.New("pagination: EditFrom must be a sent message")

	// ErrNoControls is returned when every control is excluded or
	// disabled, leaving no way to drive the pager.
	ErrNoControls = errors.New("pagination: cannot start as all of the navigation controls are disabled")

	// ErrNoPages is returned by ButtonPager.Exec when the page store is
	// empty.
	ErrNoPages = errors.New("pagination: no pages to display")
)

// Misuse errors, distinct from configuration and transport failures.
var (
	// ErrNotStarted is returned by navigation and Stop before Exec.
	ErrNotStarted = errors.New("pagination: session has not started")

	// ErrAlreadyStarted is returned by a second Exec.
	ErrAlreadyStarted = errors.New("pagination: session already started")

	// ErrSessionEnded is returned by navigation after the session ended.
	ErrSessionEnded = errors.New("pagination: session has ended")
)
