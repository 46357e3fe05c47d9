// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"
)

// Session is the set of Matrix operations the pager performs.
// *DirectSession is the production implementation; tests substitute
// fakes.
type Session interface {
	// UserID returns the fully-qualified Matrix user ID.
	UserID() string

	// WhoAmI validates the session and returns the user ID.
	WhoAmI(ctx context.Context) (string, error)

	// SendEvent sends an event of any type to a room. Returns the event ID.
	SendEvent(ctx context.Context, roomID, eventType string, content any) (string, error)

	// SendMessage sends a message to a room. Returns the event ID.
	SendMessage(ctx context.Context, roomID string, content MessageContent) (string, error)

	// EditMessage replaces the content of eventID. Returns the ID of the
	// edit event.
	EditMessage(ctx context.Context, roomID, eventID string, content MessageContent) (string, error)

	// SendReaction annotates eventID with key. Returns the reaction
	// event ID.
	SendReaction(ctx context.Context, roomID, eventID, key string) (string, error)

	// Redact removes eventID.
	Redact(ctx context.Context, roomID, eventID, reason string) error

	// Sync performs an incremental sync with the homeserver.
	Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error)
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)

// DirectSession is an authenticated Matrix session.
// It wraps a Client with an access token for making authenticated API calls.
type DirectSession struct {
	client      *Client
	accessToken string
	userID      string

	// transactionCounter generates unique transaction IDs for idempotent sends.
	transactionCounter atomic.Int64
}

// UserID returns the fully-qualified Matrix user ID.
func (s *DirectSession) UserID() string {
	return s.userID
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call this after a sync error to force
// the next request to establish a fresh TCP connection.
func (s *DirectSession) CloseIdleConnections() {
	s.client.CloseIdleConnections()
}

// WhoAmI validates the access token and returns the user ID.
func (s *DirectSession) WhoAmI(ctx context.Context) (string, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil)
	if err != nil {
		return "", fmt.Errorf("messaging: whoami failed: %w", err)
	}

	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("messaging: failed to parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// SendMessage sends a message to a room. Returns the event ID.
func (s *DirectSession) SendMessage(ctx context.Context, roomID string, content MessageContent) (string, error) {
	return s.SendEvent(ctx, roomID, EventTypeMessage, content)
}

// EditMessage sends an m.replace edit of eventID carrying content.
func (s *DirectSession) EditMessage(ctx context.Context, roomID, eventID string, content MessageContent) (string, error) {
	return s.SendEvent(ctx, roomID, EventTypeMessage, NewEdit(eventID, content))
}

// SendReaction sends an m.annotation reaction to eventID.
func (s *DirectSession) SendReaction(ctx context.Context, roomID, eventID, key string) (string, error) {
	return s.SendEvent(ctx, roomID, EventTypeReaction, ReactionContent{
		RelatesTo: RelatesTo{RelType: RelationAnnotation, EventID: eventID, Key: key},
	})
}

// SendEvent sends an event of any type to a room.
// Uses Matrix's idempotent PUT with a transaction ID.
// Returns the event ID.
func (s *DirectSession) SendEvent(ctx context.Context, roomID, eventType string, content any) (string, error) {
	transactionID := s.nextTransactionID()
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/send/%s/%s",
		url.PathEscape(roomID),
		url.PathEscape(eventType),
		url.PathEscape(transactionID),
	)

	body, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, content)
	if err != nil {
		return "", fmt.Errorf("messaging: send %s to %q failed: %w", eventType, roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("messaging: failed to parse send response: %w", err)
	}
	return response.EventID, nil
}

// Redact redacts an event. Redacting another user's event requires the
// redact power level in the room.
func (s *DirectSession) Redact(ctx context.Context, roomID, eventID, reason string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/redact/%s/%s",
		url.PathEscape(roomID),
		url.PathEscape(eventID),
		url.PathEscape(s.nextTransactionID()),
	)
	if _, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, RedactRequest{Reason: reason}); err != nil {
		return fmt.Errorf("messaging: redact %s in %q failed: %w", eventID, roomID, err)
	}
	return nil
}

// Sync performs an incremental sync with the homeserver.
// For initial sync, leave options.Since empty.
// For long-polling, set options.Timeout to the desired wait in milliseconds.
func (s *DirectSession) Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error) {
	query := url.Values{}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.SetTimeout {
		query.Set("timeout", strconv.Itoa(options.Timeout))
	}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/sync", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: sync failed: %w", err)
	}

	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse sync response: %w", err)
	}
	return &response, nil
}

// nextTransactionID generates a unique transaction ID for idempotent event sending.
// Format: "pager-<timestamp_ms>-<counter>" to ensure uniqueness across restarts.
func (s *DirectSession) nextTransactionID() string {
	counter := s.transactionCounter.Add(1)
	return fmt.Sprintf("pager-%d-%d", time.Now().UnixMilli(), counter)
}
