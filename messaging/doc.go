// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging connects reaction pagers to Matrix rooms over the
// client-server API.
//
// [Client] holds the homeserver URL, HTTP transport and a request rate
// limiter shared by every session derived from it. [DirectSession]
// adds an access token and performs the calls a pager needs: sending
// messages, m.replace edits, m.annotation reactions, redactions,
// /sync, and WhoAmI. The [Session] interface covers exactly those
// calls so tests can substitute a fake.
//
// [RoomWatcher] follows one room's /sync stream from the position
// captured at creation, buffering events from each batch. [PagerHost]
// implements pagination.ReactionHost: feed it the watched room's
// events through [PagerHost.HandleEvent]. Because removing a reaction
// means redacting its event, the host tracks the reaction events on
// every message it pages. [RenderPage] turns a page into an m.text
// message with an HTML formatted_body; markdown in descriptions and
// field values is rendered with goldmark.
//
// Matrix has no message components, so only the reaction variant runs
// here.
//
// All API errors are returned as [*MatrixError] with the standard Matrix
// error code (M_FORBIDDEN, M_UNKNOWN_TOKEN, etc.) and HTTP status code.
// [IsMatrixError] tests for a specific error code; [IsTokenRejected]
// singles out a revoked access token, which the room watcher does not
// retry.
package messaging
