// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/bureau-foundation/pager/discord"
	"github.com/bureau-foundation/pager/lib/config"
)

const discordIntents = discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsDirectMessageReactions |
	discordgo.IntentsMessageContent

var errGatewayDisconnected = errors.New("discord gateway disconnected")

// discordBot turns prefix messages and slash commands into pagers.
type discordBot struct {
	host        *discord.Host
	library     *library
	prefix      string
	commandName string
	logger      *slog.Logger
}

func (b *discordBot) handleMessage(ctx context.Context, message *discordgo.Message) {
	if message == nil || message.Author == nil || message.Author.Bot {
		return
	}
	parsed, ok := parseCommand(message.Content, b.prefix)
	if !ok {
		return
	}
	b.logger.Debug("pager command",
		"channel_id", message.ChannelID,
		"user_id", message.Author.ID,
		"reactions", parsed.reactions,
		"chapter", parsed.chapter,
	)
	origin := b.host.FromMessage(message)
	if parsed.reactions {
		b.library.startReaction(ctx, b.host, origin, parsed.chapter)
		return
	}
	b.library.startButton(ctx, b.host, origin, parsed.chapter)
}

// handleInteraction answers the slash command. Component interactions
// are routed by the host.
func (b *discordBot) handleInteraction(ctx context.Context, interaction *discordgo.Interaction) {
	if interaction == nil || interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := interaction.ApplicationCommandData()
	if b.commandName == "" || data.Name != b.commandName {
		return
	}
	var parsed command
	for _, option := range data.Options {
		switch option.Name {
		case "chapter":
			parsed.chapter = option.StringValue()
		case "reactions":
			parsed.reactions = option.BoolValue()
		}
	}
	origin := b.host.FromInteraction(interaction, false)
	if parsed.reactions {
		b.library.startReaction(ctx, b.host, origin, parsed.chapter)
		return
	}
	b.library.startButton(ctx, b.host, origin, parsed.chapter)
}

func slashCommand(name string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: "Page through the deck",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "chapter",
				Description: "Show only this chapter",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "reactions",
				Description: "Use reactions instead of buttons",
			},
		},
	}
}

// runDiscord connects to the gateway and serves pagers until ctx is
// cancelled and every running pager has ended.
func runDiscord(ctx context.Context, cfg config.DiscordConfig, lib *library, health *connectionHealth, logger *slog.Logger) error {
	token := cfg.Token()
	if token == "" {
		return fmt.Errorf("discord bot token not set: export %s", cfg.TokenEnv)
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordIntents
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Connect) { health.set(nil) })
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { health.set(errGatewayDisconnected) })

	if err := session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	defer session.Close()

	if session.State == nil || session.State.User == nil {
		return errors.New("discord gateway did not identify the bot user")
	}
	selfID := session.State.User.ID

	host, err := discord.NewHost(discord.HostConfig{Session: session, SelfUserID: selfID, Logger: logger})
	if err != nil {
		return err
	}
	bot := &discordBot{
		host:        host,
		library:     lib,
		prefix:      cfg.Prefix,
		commandName: cfg.CommandName,
		logger:      logger,
	}

	removeHost := host.Register(session)
	defer removeHost()
	removeMessages := session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageCreate) {
		bot.handleMessage(ctx, event.Message)
	})
	defer removeMessages()
	removeCommands := session.AddHandler(func(_ *discordgo.Session, event *discordgo.InteractionCreate) {
		bot.handleInteraction(ctx, event.Interaction)
	})
	defer removeCommands()

	if cfg.CommandName != "" {
		registered, err := session.ApplicationCommandCreate(selfID, cfg.GuildID, slashCommand(cfg.CommandName))
		if err != nil {
			return fmt.Errorf("registering /%s: %w", cfg.CommandName, err)
		}
		defer func() {
			if err := session.ApplicationCommandDelete(selfID, cfg.GuildID, registered.ID); err != nil {
				logger.Warn("removing slash command failed", "command", cfg.CommandName, "error", err)
			}
		}()
	}

	logger.Info("discord pager ready",
		"user_id", selfID,
		"prefix", cfg.Prefix,
		"command", cfg.CommandName,
		"guild_id", cfg.GuildID,
	)
	<-ctx.Done()
	lib.wait()
	return nil
}
