// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

// State is the cursor over the page store together with the control
// surface it implies. Transitions are pure: they return a new State.
//
// With WrapDisabled set the cursor clamps at both ends instead of
// wrapping, and after every transition previous is disabled exactly at
// index 0 and next exactly at index Total-1 (pinned controls stay
// disabled everywhere).
type State struct {
	Index        int
	Total        int
	Surface      Surface
	WrapDisabled bool
}

// NewState returns the state at index 0 with boundary controls applied.
func NewState(total int, surface Surface, wrapDisabled bool) State {
	return State{
		Total:        total,
		Surface:      surface,
		WrapDisabled: wrapDisabled,
	}.bounded()
}

// Next advances the cursor, wrapping to 0 after the last page.
func (s State) Next() State {
	if s.Total == 0 {
		return s
	}
	if s.WrapDisabled && s.Index >= s.Total-1 {
		return s
	}
	s.Index = (s.Index + 1) % s.Total
	return s.bounded()
}

// Previous moves the cursor back, wrapping to the last page before 0.
func (s State) Previous() State {
	if s.Total == 0 {
		return s
	}
	if s.WrapDisabled && s.Index <= 0 {
		return s
	}
	s.Index = (s.Index - 1 + s.Total) % s.Total
	return s.bounded()
}

// Apply performs the transition for a navigation action. Stop and
// unknown actions leave the state unchanged.
func (s State) Apply(action Action) State {
	switch action {
	case ActionNext:
		return s.Next()
	case ActionPrevious:
		return s.Previous()
	default:
		return s
	}
}

// AtStart reports whether the cursor is on the first page.
func (s State) AtStart() bool { return s.Index == 0 }

// AtEnd reports whether the cursor is on the last page.
func (s State) AtEnd() bool { return s.Total == 0 || s.Index == s.Total-1 }

func (s State) bounded() State {
	if !s.WrapDisabled {
		return s
	}
	s.Surface = s.Surface.
		withEnabled(ActionPrevious, !s.AtStart()).
		withEnabled(ActionNext, !s.AtEnd())
	return s
}
