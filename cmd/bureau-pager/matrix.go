// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pager/lib/config"
	"github.com/bureau-foundation/pager/messaging"
)

// matrixBot turns prefix messages in the watched room into reaction
// pagers. Matrix has no buttons, so "react" is accepted and ignored.
type matrixBot struct {
	host    *messaging.PagerHost
	library *library
	roomID  string
	selfID  string
	prefix  string
	logger  *slog.Logger
}

func (b *matrixBot) handleEvent(ctx context.Context, event messaging.Event) {
	b.host.HandleEvent(event)
	if event.Type != messaging.EventTypeMessage || event.Sender == b.selfID {
		return
	}
	parsed, ok := parseCommand(event.Body(), b.prefix)
	if !ok {
		return
	}
	b.logger.Debug("pager command",
		"room_id", b.roomID,
		"event_id", event.EventID,
		"sender", event.Sender,
		"chapter", parsed.chapter,
	)
	b.library.startReaction(ctx, b.host, b.host.FromEvent(b.roomID, event), parsed.chapter)
}

// runMatrix watches the configured room and serves pagers until ctx is
// cancelled and every running pager has ended.
func runMatrix(ctx context.Context, cfg config.MatrixConfig, lib *library, health *connectionHealth, logger *slog.Logger) error {
	token := cfg.AccessToken()
	if token == "" {
		return fmt.Errorf("matrix access token not set: export %s", cfg.TokenEnv)
	}
	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL:     cfg.Homeserver,
		Logger:            logger,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})
	if err != nil {
		return err
	}
	session, err := client.SessionFromToken(cfg.UserID, token)
	if err != nil {
		return err
	}
	defer session.CloseIdleConnections()

	// Pagers run under ctx; a failed watch ends them with the loop.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	userID, err := session.WhoAmI(ctx)
	if err != nil {
		return tokenHint(fmt.Errorf("verifying matrix access token: %w", err), cfg.TokenEnv)
	}
	if userID != cfg.UserID {
		return fmt.Errorf("matrix access token belongs to %s, configured user is %s", userID, cfg.UserID)
	}

	host, err := messaging.NewPagerHost(messaging.PagerHostConfig{Session: session, Logger: logger})
	if err != nil {
		return err
	}
	watcher, err := messaging.WatchRoom(ctx, session, cfg.Room, messaging.PagerSyncFilter)
	if err != nil {
		return err
	}
	health.set(nil)

	bot := &matrixBot{
		host:    host,
		library: lib,
		roomID:  cfg.Room,
		selfID:  userID,
		prefix:  cfg.Prefix,
		logger:  logger,
	}
	logger.Info("matrix pager ready", "user_id", userID, "room_id", cfg.Room, "prefix", cfg.Prefix)

	err = serveRoom(ctx, watcher, bot.handleEvent)
	if err != nil {
		err = tokenHint(err, cfg.TokenEnv)
		health.set(err)
	}
	cancel()
	lib.wait()
	return err
}

// serveRoom hands every event from watcher to handle until ctx is
// cancelled, which is not an error.
func serveRoom(ctx context.Context, watcher *messaging.RoomWatcher, handle func(context.Context, messaging.Event)) error {
	for {
		event, err := watcher.Next(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return fmt.Errorf("watching %s: %w", watcher.RoomID(), err)
		}
		handle(ctx, event)
	}
}

// tokenHint points a rejected access token at the variable to refresh.
func tokenHint(err error, tokenEnv string) error {
	if !messaging.IsTokenRejected(err) {
		return err
	}
	return fmt.Errorf("%w (the homeserver rejected the token in %s; issue a new one)", err, tokenEnv)
}
