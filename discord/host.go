// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/bureau-foundation/pager/lib/pagination"
)

// HostConfig configures a Host.
type HostConfig struct {
	// Session performs REST calls. Required.
	Session Session

	// SelfUserID is the bot's own user ID. Reactions by this user are
	// never delivered.
	SelfUserID string

	// Logger receives routing diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Host routes Discord gateway events to pagination sessions.
type Host struct {
	session Session
	selfID  string
	logger  *slog.Logger

	clicks    pagination.Feeds[pagination.Click]
	reactions pagination.Feeds[pagination.Reaction]
}

var (
	_ pagination.ButtonHost   = (*Host)(nil)
	_ pagination.ReactionHost = (*Host)(nil)
)

// NewHost creates a Host. Call [Host.Register] to start receiving
// events.
func NewHost(config HostConfig) (*Host, error) {
	if config.Session == nil {
		return nil, errors.New("discord: HostConfig.Session is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		session: config.Session,
		selfID:  config.SelfUserID,
		logger:  logger,
	}, nil
}

// Register installs the gateway handlers on adder and returns a function
// that removes them.
func (h *Host) Register(adder HandlerAdder) func() {
	removers := []func(){
		adder.AddHandler(func(_ *discordgo.Session, event *discordgo.InteractionCreate) {
			h.HandleInteraction(event.Interaction)
		}),
		adder.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageReactionAdd) {
			h.HandleReactionAdd(event.MessageReaction)
		}),
		adder.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageReactionRemove) {
			h.HandleReactionRemove(event.MessageReaction)
		}),
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// Clicks subscribes to component interactions on message.
func (h *Host) Clicks(ctx context.Context, message pagination.Message) (<-chan pagination.Click, error) {
	id := message.ID()
	if id == "" {
		return nil, errors.New("discord: cannot subscribe to an unsent message")
	}
	return h.clicks.Subscribe(ctx, id), nil
}

// Reactions subscribes to reactions on message from users other than
// the bot.
func (h *Host) Reactions(ctx context.Context, message pagination.Message) (<-chan pagination.Reaction, error) {
	id := message.ID()
	if id == "" {
		return nil, errors.New("discord: cannot subscribe to an unsent message")
	}
	return h.reactions.Subscribe(ctx, id), nil
}

// HandleInteraction routes a component interaction to the pager that
// owns its message. Other interaction types are ignored.
func (h *Host) HandleInteraction(interaction *discordgo.Interaction) {
	if interaction == nil || interaction.Type != discordgo.InteractionMessageComponent || interaction.Message == nil {
		return
	}
	click := pagination.Click{
		UserID:   interactionUserID(interaction),
		CustomID: interaction.MessageComponentData().CustomID,
		Response: &clickResponder{session: h.session, interaction: interaction},
	}
	if !h.clicks.Deliver(interaction.Message.ID, click) {
		h.logger.Debug("component interaction for unpaged message",
			"message_id", interaction.Message.ID,
			"interaction_id", interaction.ID,
		)
	}
}

// HandleReactionAdd routes an added reaction.
func (h *Host) HandleReactionAdd(reaction *discordgo.MessageReaction) {
	h.routeReaction(reaction, false)
}

// HandleReactionRemove routes a removed reaction.
func (h *Host) HandleReactionRemove(reaction *discordgo.MessageReaction) {
	h.routeReaction(reaction, true)
}

func (h *Host) routeReaction(reaction *discordgo.MessageReaction, removed bool) {
	if reaction == nil || (h.selfID != "" && reaction.UserID == h.selfID) {
		return
	}
	h.reactions.Deliver(reaction.MessageID, pagination.Reaction{
		UserID:  reaction.UserID,
		Emoji:   pagination.Emoji{ID: reaction.Emoji.ID, Name: reaction.Emoji.Name},
		Removed: removed,
	})
}

// React adds the bot's reaction to message.
func (h *Host) React(ctx context.Context, message pagination.Message, emoji pagination.Emoji) error {
	target, err := asMessage(message)
	if err != nil {
		return err
	}
	if err := h.session.MessageReactionAdd(target.channelID, target.id, emojiAPIName(emoji), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: reacting %s on %s: %w", emoji, target.id, err)
	}
	return nil
}

// RemoveUserReaction removes userID's reaction from message.
func (h *Host) RemoveUserReaction(ctx context.Context, message pagination.Message, emoji pagination.Emoji, userID string) error {
	target, err := asMessage(message)
	if err != nil {
		return err
	}
	if err := h.session.MessageReactionRemove(target.channelID, target.id, emojiAPIName(emoji), userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: removing %s reaction %s on %s: %w", userID, emoji, target.id, err)
	}
	return nil
}

// RemoveAllReactions clears every reaction on message.
func (h *Host) RemoveAllReactions(ctx context.Context, message pagination.Message) error {
	target, err := asMessage(message)
	if err != nil {
		return err
	}
	if err := h.session.MessageReactionsRemoveAll(target.channelID, target.id, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: clearing reactions on %s: %w", target.id, err)
	}
	return nil
}

func asMessage(message pagination.Message) (*Message, error) {
	target, ok := message.(*Message)
	if !ok {
		return nil, fmt.Errorf("discord: message %T was not created by this host", message)
	}
	return target, nil
}
