// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

// Matrix event types the pager sends and watches.
const (
	EventTypeMessage   = "m.room.message"
	EventTypeReaction  = "m.reaction"
	EventTypeRedaction = "m.room.redaction"
)

// Relation types.
const (
	RelationReplace    = "m.replace"
	RelationAnnotation = "m.annotation"
)

// MessageContent is the content of an m.room.message event.
//
// Format and FormattedBody carry the HTML rendering; Body is the plain
// text fallback. Edits set NewContent and a RelatesTo with RelType
// m.replace pointing at the original event.
type MessageContent struct {
	MsgType       string          `json:"msgtype"`
	Body          string          `json:"body"`
	Format        string          `json:"format,omitempty"`
	FormattedBody string          `json:"formatted_body,omitempty"`
	NewContent    *MessageContent `json:"m.new_content,omitempty"`
	RelatesTo     *RelatesTo      `json:"m.relates_to,omitempty"`
}

// RelatesTo expresses relationships between events. Annotations
// (reactions) set Key to the reaction text.
type RelatesTo struct {
	RelType string `json:"rel_type"`
	EventID string `json:"event_id"`
	Key     string `json:"key,omitempty"`
}

// ReactionContent is the content of an m.reaction event.
type ReactionContent struct {
	RelatesTo RelatesTo `json:"m.relates_to"`
}

// RedactRequest is the body of a redaction.
type RedactRequest struct {
	Reason string `json:"reason,omitempty"`
}

// NewTextMessage creates a plain text message.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
	}
}

// NewEdit wraps replacement as an edit of eventID. Clients that do not
// understand edits show the fallback body prefixed with "* ".
func NewEdit(eventID string, replacement MessageContent) MessageContent {
	fallback := replacement
	fallback.Body = "* " + replacement.Body
	if replacement.FormattedBody != "" {
		fallback.FormattedBody = "* " + replacement.FormattedBody
	}
	newContent := replacement
	fallback.NewContent = &newContent
	fallback.RelatesTo = &RelatesTo{RelType: RelationReplace, EventID: eventID}
	return fallback
}

// Event represents a Matrix event from the server.
type Event struct {
	EventID        string         `json:"event_id"`
	Type           string         `json:"type"`
	Sender         string         `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         string         `json:"room_id,omitempty"`
	StateKey       *string        `json:"state_key,omitempty"`

	// Redacts is the redacted event in rooms before version 11. Newer
	// rooms carry it in the content.
	Redacts string `json:"redacts,omitempty"`
}

// Body returns the plain text body of a message event.
func (e Event) Body() string {
	body, _ := e.Content["body"].(string)
	return body
}

// Relation returns the m.relates_to block of the event content.
func (e Event) Relation() (RelatesTo, bool) {
	raw, ok := e.Content["m.relates_to"].(map[string]any)
	if !ok {
		return RelatesTo{}, false
	}
	relation := RelatesTo{}
	relation.RelType, _ = raw["rel_type"].(string)
	relation.EventID, _ = raw["event_id"].(string)
	relation.Key, _ = raw["key"].(string)
	return relation, relation.EventID != ""
}

// RedactedEventID returns the event a redaction removes, or "".
func (e Event) RedactedEventID() string {
	if redacts, ok := e.Content["redacts"].(string); ok && redacts != "" {
		return redacts
	}
	return e.Redacts
}

// SyncOptions configures a /sync request.
type SyncOptions struct {
	Since      string // next_batch token from previous sync; empty for initial sync
	Timeout    int    // long-poll timeout in milliseconds; 0 for immediate return
	SetTimeout bool   // if true, send the timeout parameter (needed to distinguish "not set" from "0")
	Filter     string // filter ID or inline JSON filter
}

// SyncResponse is the response from /sync.
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection holds per-room sync data for joined rooms.
type RoomsSection struct {
	Join map[string]JoinedRoom `json:"join,omitempty"`
}

// JoinedRoom holds sync data for a room the user has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// TimelineSection holds timeline events from sync.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}

// StateSection holds state events from sync.
type StateSection struct {
	Events []Event `json:"events"`
}

// SendEventResponse is the response from sending an event.
type SendEventResponse struct {
	EventID string `json:"event_id"`
}

// WhoAmIResponse is the response from /account/whoami.
type WhoAmIResponse struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id,omitempty"`
}
