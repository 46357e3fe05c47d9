// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import "fmt"

// Action names one of the three pager controls.
type Action int

const (
	ActionPrevious Action = iota
	ActionNext
	ActionStop

	actionCount
)

// Actions lists every action in display order.
var Actions = [actionCount]Action{ActionPrevious, ActionNext, ActionStop}

// String returns the action name, which doubles as the component custom
// ID for button controls.
func (a Action) String() string {
	switch a {
	case ActionPrevious:
		return "previous"
	case ActionNext:
		return "next"
	case ActionStop:
		return "stop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps a component custom ID back to its action.
func ParseAction(customID string) (Action, bool) {
	for _, action := range Actions {
		if action.String() == customID {
			return action, true
		}
	}
	return 0, false
}

// ButtonStyle is the visual style of a button control. Hosts without
// button styles ignore it.
type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
	StyleSuccess   ButtonStyle = "success"
	StyleDanger    ButtonStyle = "danger"
)

// Emoji identifies a unicode emoji (Name only) or a custom emoji (ID and
// Name).
type Emoji struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// IsZero reports whether the emoji is unset.
func (e Emoji) IsZero() bool { return e.ID == "" && e.Name == "" }

// Matches reports whether other names the same emoji. Custom emoji match
// by ID; unicode emoji match by name.
func (e Emoji) Matches(other Emoji) bool {
	if e.ID != "" || other.ID != "" {
		return e.ID == other.ID
	}
	return e.Name != "" && e.Name == other.Name
}

// String returns the unicode character, or "name:id" for a custom emoji.
func (e Emoji) String() string {
	if e.ID != "" {
		return e.Name + ":" + e.ID
	}
	return e.Name
}

// ControlOptions overrides the defaults for one control.
type ControlOptions struct {
	// Label is the button text. Empty keeps the default glyph.
	Label string

	// Style is the button style. Empty keeps the default.
	Style ButtonStyle

	// Emoji is shown on the button, or used as the reaction for the
	// reaction pager. Zero keeps the default.
	Emoji Emoji

	// Disable keeps the control disabled for the whole session. Wrap
	// handling never re-enables it.
	Disable bool

	// Exclude leaves the control off the message entirely.
	Exclude bool
}

// Control is one control as currently displayed.
type Control struct {
	Action   Action
	Label    string
	Style    ButtonStyle
	Emoji    Emoji
	Disabled bool

	// Pinned marks a control disabled by configuration. Pinned controls
	// stay disabled regardless of cursor position.
	Pinned bool
}

// Surface is the set of controls attached to a pager message. It is a
// value: transitions return a modified copy rather than mutating shared
// controls.
type Surface struct {
	controls [actionCount]Control
	present  [actionCount]bool
}

// controlDefaults are the per-action defaults a variant starts from.
type controlDefaults struct {
	label string
	style ButtonStyle
	emoji Emoji
}

// buildSurface constructs the surface from variant defaults and user
// overrides. It fails with ErrNoControls when no control would be usable.
func buildSurface(defaults [actionCount]controlDefaults, options [actionCount]ControlOptions) (Surface, error) {
	var surface Surface
	for _, action := range Actions {
		option := options[action]
		if option.Exclude {
			continue
		}
		control := Control{
			Action:   action,
			Label:    defaults[action].label,
			Style:    defaults[action].style,
			Emoji:    defaults[action].emoji,
			Disabled: option.Disable,
			Pinned:   option.Disable,
		}
		if option.Label != "" {
			control.Label = option.Label
		}
		if option.Style != "" {
			control.Style = option.Style
		}
		if !option.Emoji.IsZero() {
			control.Emoji = option.Emoji
		}
		surface.controls[action] = control
		surface.present[action] = true
	}
	if !surface.Usable() {
		return Surface{}, ErrNoControls
	}
	return surface, nil
}

// Control returns the control for action and whether it is present.
func (s Surface) Control(action Action) (Control, bool) {
	if action < 0 || action >= actionCount || !s.present[action] {
		return Control{}, false
	}
	return s.controls[action], true
}

// Controls returns the present controls in display order.
func (s Surface) Controls() []Control {
	var controls []Control
	for _, action := range Actions {
		if s.present[action] {
			controls = append(controls, s.controls[action])
		}
	}
	return controls
}

// Usable reports whether at least one present control is enabled.
func (s Surface) Usable() bool {
	for _, action := range Actions {
		if s.present[action] && !s.controls[action].Disabled {
			return true
		}
	}
	return false
}

// Enabled reports whether action is present and enabled.
func (s Surface) Enabled(action Action) bool {
	control, ok := s.Control(action)
	return ok && !control.Disabled
}

// match returns the present control whose emoji matches.
func (s Surface) match(emoji Emoji) (Control, bool) {
	for _, action := range Actions {
		if s.present[action] && s.controls[action].Emoji.Matches(emoji) {
			return s.controls[action], true
		}
	}
	return Control{}, false
}

// withEnabled returns a copy with action enabled or disabled. Enabling a
// pinned control has no effect.
func (s Surface) withEnabled(action Action, enabled bool) Surface {
	if !s.present[action] {
		return s
	}
	control := s.controls[action]
	control.Disabled = !enabled || control.Pinned
	s.controls[action] = control
	return s
}

// finished returns a copy with every control disabled.
func (s Surface) finished() Surface {
	for _, action := range Actions {
		s.controls[action].Disabled = true
	}
	return s
}
