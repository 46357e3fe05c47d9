// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// SyncFilter configures what events a RoomWatcher receives from /sync.
// The watched room is always included automatically. A nil *SyncFilter
// means every timeline and state event from the watched room.
type SyncFilter struct {
	// TimelineTypes restricts timeline events to these Matrix event types
	// (e.g., "m.room.message"). An empty slice means all timeline types.
	TimelineTypes []string `json:"timeline_types,omitempty"`

	// TimelineLimit caps the number of timeline events per /sync response.
	// Zero means no explicit limit (server default).
	TimelineLimit int `json:"timeline_limit,omitempty"`

	// ExcludeState suppresses state events from the /sync response.
	ExcludeState bool `json:"exclude_state,omitempty"`
}

// PagerSyncFilter selects the events a pager bot needs: commands,
// reactions and redactions, without room state.
var PagerSyncFilter = &SyncFilter{
	TimelineTypes: []string{EventTypeMessage, EventTypeReaction, EventTypeRedaction},
	ExcludeState:  true,
}

// buildInlineFilter constructs the inline JSON filter string for /sync,
// scoped to roomID.
func buildInlineFilter(roomID string, filter *SyncFilter) string {
	roomFilter := map[string]any{
		"rooms": []string{roomID},
	}

	if filter != nil {
		timeline := map[string]any{}
		if len(filter.TimelineTypes) > 0 {
			timeline["types"] = filter.TimelineTypes
		}
		if filter.TimelineLimit > 0 {
			timeline["limit"] = filter.TimelineLimit
		}
		if len(timeline) > 0 {
			roomFilter["timeline"] = timeline
		}
		if filter.ExcludeState {
			roomFilter["state"] = map[string]any{"types": []string{}}
		}
	}

	top := map[string]any{
		"room":         roomFilter,
		"presence":     map[string]any{"types": []string{}},
		"account_data": map[string]any{"types": []string{}},
	}

	data, _ := json.Marshal(top)
	return string(data)
}

// RoomWatcher follows the /sync stream of one room from a captured
// position. Events that arrived before WatchRoom are never returned.
//
// All waiting uses /sync long-polling: the server holds the connection
// until new events arrive. RoomWatcher is not safe for concurrent use.
type RoomWatcher struct {
	session   Session
	roomID    string
	filter    string
	nextBatch string
	pending   []Event
	logger    *slog.Logger
}

// WatchRoom captures the current position in the /sync stream with an
// immediate (timeout=0) sync. Pass nil for filter to receive all event
// types.
func WatchRoom(ctx context.Context, session Session, roomID string, filter *SyncFilter) (*RoomWatcher, error) {
	if roomID == "" {
		return nil, fmt.Errorf("messaging: WatchRoom requires a room ID")
	}
	inlineFilter := buildInlineFilter(roomID, filter)
	response, err := session.Sync(ctx, SyncOptions{
		SetTimeout: true,
		Timeout:    0,
		Filter:     inlineFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("messaging: initial sync for room watch: %w", err)
	}
	return &RoomWatcher{
		session:   session,
		roomID:    roomID,
		filter:    inlineFilter,
		nextBatch: response.NextBatch,
		logger:    slog.Default().With("room_id", roomID),
	}, nil
}

// maxSyncRetries is the number of consecutive /sync failures allowed
// before WaitForEvent returns an error.
const maxSyncRetries = 5

// longPollTimeout is the server-side long-poll hold time in
// milliseconds for normal /sync calls.
const longPollTimeout = 30000

// retryTimeout is the server-side timeout in milliseconds used after
// a /sync error, so the round-trip itself provides backoff.
const retryTimeout = 1000

// WaitForEvent blocks until an event matching predicate arrives in the
// watched room. Events from one /sync response are buffered, so a batch
// holding several matches is consumed one call at a time. Transient
// /sync errors are retried up to maxSyncRetries times; a rejected access
// token fails at once.
func (w *RoomWatcher) WaitForEvent(ctx context.Context, predicate func(Event) bool) (Event, error) {
	if event, ok := w.takePending(predicate); ok {
		return event, nil
	}

	var syncRetries int
	for {
		syncTimeout := longPollTimeout
		if syncRetries > 0 {
			syncTimeout = retryTimeout
		}
		response, err := w.session.Sync(ctx, SyncOptions{
			Since:      w.nextBatch,
			SetTimeout: true,
			Timeout:    syncTimeout,
			Filter:     w.filter,
		})
		if err != nil {
			if ctx.Err() != nil {
				return Event{}, fmt.Errorf("context cancelled waiting for event in room %s: %w", w.roomID, ctx.Err())
			}
			if IsTokenRejected(err) {
				return Event{}, fmt.Errorf("sync rejected in room %s: %w", w.roomID, err)
			}
			syncRetries++
			// Connection resets often leave a poisoned connection in the
			// pool; drop idle connections before retrying.
			if closer, ok := w.session.(interface{ CloseIdleConnections() }); ok {
				closer.CloseIdleConnections()
			}
			if syncRetries > maxSyncRetries {
				return Event{}, fmt.Errorf("sync failed %d consecutive times waiting for event in room %s: %w",
					syncRetries, w.roomID, err)
			}
			w.logger.Debug("room watcher sync error, retrying",
				"attempt", syncRetries,
				"max_attempts", maxSyncRetries,
				"error", err,
			)
			continue
		}
		syncRetries = 0
		w.nextBatch = response.NextBatch

		joined, ok := response.Rooms.Join[w.roomID]
		if !ok || len(joined.State.Events)+len(joined.Timeline.Events) == 0 {
			continue
		}

		w.logger.Debug("room watcher received events",
			"state_events", len(joined.State.Events),
			"timeline_events", len(joined.Timeline.Events),
			"pending_before", len(w.pending),
		)

		// State before timeline, matching server delivery order.
		w.pending = append(w.pending, joined.State.Events...)
		w.pending = append(w.pending, joined.Timeline.Events...)

		if event, ok := w.takePending(predicate); ok {
			return event, nil
		}
	}
}

// Next returns the next event in the watched room.
func (w *RoomWatcher) Next(ctx context.Context) (Event, error) {
	return w.WaitForEvent(ctx, func(Event) bool { return true })
}

func (w *RoomWatcher) takePending(predicate func(Event) bool) (Event, bool) {
	for i, event := range w.pending {
		if predicate(event) {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			return event, true
		}
	}
	return Event{}, false
}

// SyncPosition returns the current sync stream position token.
func (w *RoomWatcher) SyncPosition() string {
	return w.nextBatch
}

// RoomID returns the room being watched.
func (w *RoomWatcher) RoomID() string {
	return w.roomID
}
