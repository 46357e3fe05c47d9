// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"errors"
	"testing"
)

func defaultSurface(t *testing.T) Surface {
	t.Helper()
	surface, err := buildSurface(buttonDefaults, [actionCount]ControlOptions{})
	if err != nil {
		t.Fatalf("buildSurface: %v", err)
	}
	return surface
}

func TestStateWrapCycles(t *testing.T) {
	surface := defaultSurface(t)
	for total := 1; total <= 6; total++ {
		state := NewState(total, surface, false)
		for _i := 0; _i < total; _i++ {
			state = state.Next()
		}
		if state.Index != 0 {
			t.Errorf("total %d: %d nexts landed on %d, want 0", total, total, state.Index)
		}
		for _i := 0; _i < total; _i++ {
			state = state.Previous()
		}
		if state.Index != 0 {
			t.Errorf("total %d: %d previouses landed on %d, want 0", total, total, state.Index)
		}
	}
}

func TestStateWrapAtEdges(t *testing.T) {
	state := NewState(3, defaultSurface(t), false)
	if got := state.Previous().Index; got != 2 {
		t.Fatalf("previous from 0 = %d, want 2", got)
	}
	state.Index = 2
	if got := state.Next().Index; got != 0 {
		t.Fatalf("next from last = %d, want 0", got)
	}
}

func TestStateClampWithWrapDisabled(t *testing.T) {
	state := NewState(3, defaultSurface(t), true)
	if state.Previous() != state {
		t.Fatal("previous at index 0 should leave the state unchanged")
	}
	state = state.Next().Next()
	if state.Index != 2 {
		t.Fatalf("index = %d, want 2", state.Index)
	}
	if state.Next() != state {
		t.Fatal("next at the last page should leave the state unchanged")
	}
}

func TestStateBoundaryControls(t *testing.T) {
	state := NewState(3, defaultSurface(t), true)
	for step := 0; step < 3; step++ {
		previousEnabled := state.Surface.Enabled(ActionPrevious)
		nextEnabled := state.Surface.Enabled(ActionNext)
		if previousEnabled != (state.Index != 0) {
			t.Errorf("index %d: previous enabled = %v", state.Index, previousEnabled)
		}
		if nextEnabled != (state.Index != state.Total-1) {
			t.Errorf("index %d: next enabled = %v", state.Index, nextEnabled)
		}
		if !state.Surface.Enabled(ActionStop) {
			t.Errorf("index %d: stop disabled", state.Index)
		}
		state = state.Next()
	}
}

func TestStateWrapDisabledWalk(t *testing.T) {
	type step struct {
		move                         func(State) State
		index                        int
		previousEnabled, nextEnabled bool
	}
	next := State.Next
	previous := State.Previous

	tests := map[string]struct {
		total int
		steps []step
	}{
		"back from the last page": {
			total: 5,
			steps: []step{
				{next, 1, true, true},
				{next, 2, true, true},
				{next, 3, true, true},
				{next, 4, true, false},
				{previous, 3, true, true},
			},
		},
		"down to the first page": {
			total: 3,
			steps: []step{
				{next, 1, true, true},
				{next, 2, true, false},
				{previous, 1, true, true},
				{previous, 0, false, true},
				{previous, 0, false, true},
			},
		},
		"two pages": {
			total: 2,
			steps: []step{
				{next, 1, true, false},
				{next, 1, true, false},
				{previous, 0, false, true},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			state := NewState(test.total, defaultSurface(t), true)
			for i, s := range test.steps {
				state = s.move(state)
				if state.Index != s.index {
					t.Fatalf("step %d: index = %d, want %d", i, state.Index, s.index)
				}
				if got := state.Surface.Enabled(ActionPrevious); got != s.previousEnabled {
					t.Errorf("step %d: previous enabled = %v, want %v", i, got, s.previousEnabled)
				}
				if got := state.Surface.Enabled(ActionNext); got != s.nextEnabled {
					t.Errorf("step %d: next enabled = %v, want %v", i, got, s.nextEnabled)
				}
			}
		})
	}
}

func TestStateSinglePageDisablesBothWithWrapDisabled(t *testing.T) {
	state := NewState(1, defaultSurface(t), true)
	if state.Surface.Enabled(ActionPrevious) || state.Surface.Enabled(ActionNext) {
		t.Fatal("one page with wrap disabled should disable previous and next")
	}
}

func TestStateWrapLeavesControlsAlone(t *testing.T) {
	state := NewState(3, defaultSurface(t), false)
	for _i := 0; _i < 4; _i++ {
		state = state.Next()
		for _, action := range Actions {
			if !state.Surface.Enabled(action) {
				t.Fatalf("index %d: %s disabled while wrapping", state.Index, action)
			}
		}
	}
}

func TestStateEmptyStore(t *testing.T) {
	state := NewState(0, defaultSurface(t), false)
	if state.Next() != state || state.Previous() != state {
		t.Fatal("navigation over an empty store should be a no-op")
	}
}

func TestStateApplyStopIsNoop(t *testing.T) {
	state := NewState(3, defaultSurface(t), false)
	if state.Apply(ActionStop) != state {
		t.Fatal("Apply(stop) changed the state")
	}
}

func TestPinnedControlStaysDisabled(t *testing.T) {
	surface, err := buildSurface(buttonDefaults, [actionCount]ControlOptions{
		ActionPrevious: {Disable: true},
	})
	if err != nil {
		t.Fatalf("buildSurface: %v", err)
	}
	state := NewState(3, surface, true)
	for _i := 0; _i < 3; _i++ {
		state = state.Next()
		if state.Surface.Enabled(ActionPrevious) {
			t.Fatalf("index %d: pinned previous became enabled", state.Index)
		}
	}
}

func TestPinnedNextStaysDisabledGoingBack(t *testing.T) {
	surface, err := buildSurface(buttonDefaults, [actionCount]ControlOptions{
		ActionNext: {Disable: true},
	})
	if err != nil {
		t.Fatalf("buildSurface: %v", err)
	}
	state := NewState(3, surface, true)
	state.Index = 2
	for _i := 0; _i < 3; _i++ {
		state = state.Previous()
		if state.Surface.Enabled(ActionNext) {
			t.Fatalf("index %d: pinned next became enabled", state.Index)
		}
	}
	if state.Index != 0 {
		t.Fatalf("index = %d, want 0", state.Index)
	}
}

func TestBuildSurfaceNoControls(t *testing.T) {
	tests := map[string][actionCount]ControlOptions{
		"all excluded": {
			ActionPrevious: {Exclude: true},
			ActionNext:     {Exclude: true},
			ActionStop:     {Exclude: true},
		},
		"all disabled": {
			ActionPrevious: {Disable: true},
			ActionNext:     {Disable: true},
			ActionStop:     {Disable: true},
		},
		"mixed": {
			ActionPrevious: {Exclude: true},
			ActionNext:     {Disable: true},
			ActionStop:     {Exclude: true},
		},
	}
	for name, options := range tests {
		if _, err := buildSurface(buttonDefaults, options); !errors.Is(err, ErrNoControls) {
			t.Errorf("%s: error = %v, want ErrNoControls", name, err)
		}
	}
}

func TestBuildSurfaceOverrides(t *testing.T) {
	surface, err := buildSurface(buttonDefaults, [actionCount]ControlOptions{
		ActionNext: {Label: "Forward", Style: StylePrimary, Emoji: Emoji{Name: "⏩"}},
		ActionStop: {Exclude: true},
	})
	if err != nil {
		t.Fatalf("buildSurface: %v", err)
	}
	controls := surface.Controls()
	if len(controls) != 2 {
		t.Fatalf("got %d controls, want 2", len(controls))
	}
	next, ok := surface.Control(ActionNext)
	if !ok {
		t.Fatal("next control missing")
	}
	if next.Label != "Forward" || next.Style != StylePrimary || next.Emoji.Name != "⏩" {
		t.Errorf("next = %+v", next)
	}
	previous, _ := surface.Control(ActionPrevious)
	if previous.Label != "◀" || previous.Style != StyleSecondary {
		t.Errorf("previous lost its defaults: %+v", previous)
	}
	if _, ok := surface.Control(ActionStop); ok {
		t.Error("excluded stop control is present")
	}
}

func TestSurfaceFinished(t *testing.T) {
	surface := defaultSurface(t).finished()
	if surface.Usable() {
		t.Fatal("finished surface is still usable")
	}
	if len(surface.Controls()) != 3 {
		t.Fatal("finished surface dropped controls")
	}
}

func TestEmojiMatches(t *testing.T) {
	tests := []struct {
		a, b Emoji
		want bool
	}{
		{Emoji{Name: "▶"}, Emoji{Name: "▶"}, true},
		{Emoji{Name: "▶"}, Emoji{Name: "◀"}, false},
		{Emoji{ID: "1", Name: "next"}, Emoji{ID: "1", Name: "renamed"}, true},
		{Emoji{ID: "1", Name: "next"}, Emoji{Name: "next"}, false},
		{Emoji{}, Emoji{}, false},
	}
	for _, test := range tests {
		if got := test.a.Matches(test.b); got != test.want {
			t.Errorf("%+v.Matches(%+v) = %v, want %v", test.a, test.b, got, test.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	for _, action := range Actions {
		parsed, ok := ParseAction(action.String())
		if !ok || parsed != action {
			t.Errorf("ParseAction(%q) = %v, %v", action.String(), parsed, ok)
		}
	}
	if _, ok := ParseAction("first"); ok {
		t.Error("ParseAction accepted an unknown ID")
	}
}

func TestFilters(t *testing.T) {
	only := OnlyUser("alice")
	if !only("alice") || only("bob") {
		t.Error("OnlyUser")
	}
	allow := AllowUsers("alice", "", "carol")
	if !allow("alice") || !allow("carol") || allow("bob") || allow("") {
		t.Error("AllowUsers")
	}
}
