// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package discord connects pagination sessions to Discord through
// discordgo.
//
// A [Host] implements both pagination.ButtonHost and
// pagination.ReactionHost. Gateway events reach it through handlers
// installed by [Host.Register]; each event is routed to the session
// subscribed to the message it concerns. Events for messages nobody is
// paging are dropped, as are the bot's own reactions.
//
// Origins say where a pager was invoked:
//
//   - [Host.FromMessage] answers a text command with a new message in
//     the same channel.
//   - [Host.FromInteraction] answers a slash command through the
//     interaction response, or edits the deferred response when the
//     interaction was already acknowledged.
//   - [Host.Message] names an existing message for Options.EditFrom.
//
// Button controls are rendered as one actions row whose custom IDs are
// the action names ("previous", "next", "stop"). Denied clicks are
// answered with an ephemeral message. REST calls carry the session
// context through discordgo.WithContext.
package discord
