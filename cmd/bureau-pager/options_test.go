// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/pager/lib/config"
	"github.com/bureau-foundation/pager/lib/pagination"
)

func TestNewPagerOptions(t *testing.T) {
	pager := config.PagerConfig{
		Timeout:                "2m",
		IdleTimeout:            "30s",
		DisableWrap:            true,
		AppendPageInfo:         true,
		PageInfoFormat:         "%page/%total",
		ErrorMessage:           "hands off",
		AllowedUsers:           []string{"mod"},
		DisableButtonsOnFinish: true,
		RemoveButtonsOnFinish:  true,
		RemoveUserReactions:    true,
		IncludeStop:            pagination.Bool(false),
		Controls: config.ControlsConfig{
			Next: config.ControlConfig{Label: "Next", Style: "success"},
			Stop: config.ControlConfig{Emoji: "halt", EmojiID: "42", Exclude: true},
		},
	}
	options, err := newPagerOptions(pager, nil, nil)
	if err != nil {
		t.Fatalf("newPagerOptions: %v", err)
	}

	shared := options.button.Options
	if shared.Timeout != 2*time.Minute || shared.IdleTimeout != 30*time.Second {
		t.Errorf("timeouts = %v, %v", shared.Timeout, shared.IdleTimeout)
	}
	if !shared.DisableWrap || !shared.AppendPageInfo || shared.PageInfoFormat != "%page/%total" {
		t.Errorf("shared options = %+v", shared)
	}
	if shared.Next.Label != "Next" || shared.Next.Style != pagination.StyleSuccess || !shared.Next.Emoji.IsZero() {
		t.Errorf("next control = %+v", shared.Next)
	}
	if shared.Stop.Emoji != (pagination.Emoji{ID: "42", Name: "halt"}) || !shared.Stop.Exclude {
		t.Errorf("stop control = %+v", shared.Stop)
	}

	if options.button.ErrorMessage != "hands off" || !options.button.RemoveButtonsOnFinish || !options.button.DisableButtonsOnFinish {
		t.Errorf("button options = %+v", options.button)
	}
	if len(options.button.AllowedUsers) != 1 || options.button.AllowedUsers[0] != "mod" {
		t.Errorf("allowed users = %v", options.button.AllowedUsers)
	}
	if options.reaction.IncludeStop == nil || *options.reaction.IncludeStop || options.reaction.IncludePrevious != nil {
		t.Errorf("include flags = %v, %v", options.reaction.IncludePrevious, options.reaction.IncludeStop)
	}
	if !options.reaction.RemoveUserReactions || options.reaction.RemoveAllReactions {
		t.Errorf("reaction options = %+v", options.reaction)
	}
}

func TestNewPagerOptionsRejectsBadDuration(t *testing.T) {
	_, err := newPagerOptions(config.PagerConfig{Timeout: "soon"}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "pager.timeout") {
		t.Fatalf("expected pager.timeout error, got %v", err)
	}
}

func TestReactionOptionsFilter(t *testing.T) {
	t.Run("invoker_only", func(t *testing.T) {
		options, err := newPagerOptions(config.PagerConfig{}, nil, nil)
		if err != nil {
			t.Fatalf("newPagerOptions: %v", err)
		}
		if options.reactionOptions("alice").Filter != nil {
			t.Error("filter set without allowed users; the pager default should apply")
		}
	})

	t.Run("allowed_users", func(t *testing.T) {
		options, err := newPagerOptions(config.PagerConfig{AllowedUsers: []string{"mod"}}, nil, nil)
		if err != nil {
			t.Fatalf("newPagerOptions: %v", err)
		}
		filter := options.reactionOptions("alice").Filter
		if filter == nil {
			t.Fatal("filter not set")
		}
		for user, want := range map[string]bool{"alice": true, "mod": true, "mallory": false} {
			if got := filter(user); got != want {
				t.Errorf("filter(%q) = %v, want %v", user, got, want)
			}
		}
		// Building one session's filter must not leak its invoker into
		// the next.
		if options.reactionOptions("bob").Filter("alice") {
			t.Error("invoker of an earlier session allowed")
		}
	})
}
