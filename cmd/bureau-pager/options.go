// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"slices"

	"github.com/bureau-foundation/pager/lib/config"
	"github.com/bureau-foundation/pager/lib/pagination"
)

// pagerOptions are the session options derived from the pager config
// section, shared by every session the bot starts.
type pagerOptions struct {
	button   pagination.ButtonOptions
	reaction pagination.ReactionOptions

	// allowedUsers may drive any pager alongside its invoker.
	allowedUsers []string
}

func newPagerOptions(pager config.PagerConfig, logger *slog.Logger, observer pagination.Observer) (pagerOptions, error) {
	timeout, err := pager.SessionTimeout()
	if err != nil {
		return pagerOptions{}, err
	}
	idle, err := pager.SessionIdleTimeout()
	if err != nil {
		return pagerOptions{}, err
	}

	shared := pagination.Options{
		DisableWrap:    pager.DisableWrap,
		Timeout:        timeout,
		IdleTimeout:    idle,
		AppendPageInfo: pager.AppendPageInfo,
		PageInfoFormat: pager.PageInfoFormat,
		Previous:       controlOptions(pager.Controls.Previous),
		Next:           controlOptions(pager.Controls.Next),
		Stop:           controlOptions(pager.Controls.Stop),
		Logger:         logger,
		Observer:       observer,
	}

	return pagerOptions{
		button: pagination.ButtonOptions{
			Options:                shared,
			ErrorMessage:           pager.ErrorMessage,
			AllowedUsers:           slices.Clone(pager.AllowedUsers),
			DisableButtonsOnFinish: pager.DisableButtonsOnFinish,
			RemoveButtonsOnFinish:  pager.RemoveButtonsOnFinish,
		},
		reaction: pagination.ReactionOptions{
			Options:             shared,
			IncludePrevious:     pager.IncludePrevious,
			IncludeStop:         pager.IncludeStop,
			RemoveUserReactions: pager.RemoveUserReactions,
			RemoveAllReactions:  pager.RemoveAllReactions,
		},
		allowedUsers: slices.Clone(pager.AllowedUsers),
	}, nil
}

func controlOptions(control config.ControlConfig) pagination.ControlOptions {
	options := pagination.ControlOptions{
		Label:   control.Label,
		Style:   pagination.ButtonStyle(control.Style),
		Disable: control.Disable,
		Exclude: control.Exclude,
	}
	if control.Emoji != "" {
		options.Emoji = pagination.Emoji{ID: control.EmojiID, Name: control.Emoji}
	}
	return options
}

// reactionOptions returns the reaction options for one session. The
// configured allowed users widen the default invoker-only filter.
func (o pagerOptions) reactionOptions(invokerID string) pagination.ReactionOptions {
	options := o.reaction
	if len(o.allowedUsers) > 0 {
		options.Filter = pagination.AllowUsers(append(slices.Clone(o.allowedUsers), invokerID)...)
	}
	return options
}
