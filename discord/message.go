// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/bureau-foundation/pager/lib/pagination"
)

// Message is a channel message owned by a pager.
type Message struct {
	session   Session
	channelID string
	id        string
}

var _ pagination.Message = (*Message)(nil)

func (m *Message) ID() string { return m.id }

// ChannelID returns the channel the message lives in.
func (m *Message) ChannelID() string { return m.channelID }

// Edit replaces the embed and the component row.
func (m *Message) Edit(ctx context.Context, view pagination.View) error {
	embeds := renderEmbeds(view)
	components := renderComponents(view)
	edit := discordgo.NewMessageEdit(m.channelID, m.id)
	edit.Embeds = &embeds
	edit.Components = &components
	if _, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: editing message %s in %s: %w", m.id, m.channelID, err)
	}
	return nil
}

func (h *Host) wrap(message *discordgo.Message) *Message {
	return &Message{session: h.session, channelID: message.ChannelID, id: message.ID}
}

// Message names an existing message, for use as Options.EditFrom.
func (h *Host) Message(channelID, messageID string) *Message {
	return &Message{session: h.session, channelID: channelID, id: messageID}
}

// messageOrigin answers a text command in its channel.
type messageOrigin struct {
	host    *Host
	message *discordgo.Message
}

// FromMessage returns the origin for a pager invoked by a text command.
func (h *Host) FromMessage(message *discordgo.Message) pagination.MessageOrigin {
	return &messageOrigin{host: h, message: message}
}

func (o *messageOrigin) InvokerID() string {
	if o.message.Author == nil {
		return ""
	}
	return o.message.Author.ID
}

func (o *messageOrigin) Send(ctx context.Context, view pagination.View) (pagination.Message, error) {
	sent, err := o.host.session.ChannelMessageSendComplex(o.message.ChannelID, &discordgo.MessageSend{
		Embeds:     renderEmbeds(view),
		Components: renderComponents(view),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: sending to %s: %w", o.message.ChannelID, err)
	}
	return o.host.wrap(sent), nil
}

// interactionOrigin answers a slash command.
type interactionOrigin struct {
	host         *Host
	interaction  *discordgo.Interaction
	acknowledged bool
}

// FromInteraction returns the origin for a pager invoked by a slash
// command. Pass acknowledged when the interaction was already deferred
// or replied to.
func (h *Host) FromInteraction(interaction *discordgo.Interaction, acknowledged bool) pagination.InteractionOrigin {
	return &interactionOrigin{host: h, interaction: interaction, acknowledged: acknowledged}
}

func (o *interactionOrigin) InvokerID() string { return interactionUserID(o.interaction) }

func (o *interactionOrigin) Acknowledged() bool { return o.acknowledged }

func (o *interactionOrigin) Reply(ctx context.Context, view pagination.View) (pagination.Message, error) {
	err := o.host.session.InteractionRespond(o.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     renderEmbeds(view),
			Components: renderComponents(view),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: responding to interaction %s: %w", o.interaction.ID, err)
	}
	o.acknowledged = true

	// The response body is empty; fetch the message to learn its ID.
	response, err := o.host.session.InteractionResponse(o.interaction, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: fetching response to interaction %s: %w", o.interaction.ID, err)
	}
	return o.host.wrap(response), nil
}

func (o *interactionOrigin) EditReply(ctx context.Context, view pagination.View) (pagination.Message, error) {
	embeds := renderEmbeds(view)
	components := renderComponents(view)
	response, err := o.host.session.InteractionResponseEdit(o.interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: editing response to interaction %s: %w", o.interaction.ID, err)
	}
	return o.host.wrap(response), nil
}

// clickResponder answers one component interaction.
type clickResponder struct {
	session     Session
	interaction *discordgo.Interaction
}

func (r *clickResponder) Update(ctx context.Context, view pagination.View) error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     renderEmbeds(view),
			Components: renderComponents(view),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: updating message for interaction %s: %w", r.interaction.ID, err)
	}
	return nil
}

func (r *clickResponder) Deny(ctx context.Context, content string) error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: denying interaction %s: %w", r.interaction.ID, err)
	}
	return nil
}

// interactionUserID returns the acting user: the member in a guild,
// the user in a DM.
func interactionUserID(interaction *discordgo.Interaction) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}
