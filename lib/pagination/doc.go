// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pagination turns an ordered collection of embeds into a single
// chat message that users page through with controls attached to it.
//
// Two pagers share the same core. [ButtonPager] drives the cursor from
// message-component clicks; [ReactionPager] drives it from emoji
// reactions added to or removed from the message. Both are built from:
//
//   - a page store ([BuildPages], optionally annotated by
//     [AppendPageInfo]) fixed at construction,
//   - a [Surface] holding the previous, next, and stop [Control] values,
//   - a [State] that moves the cursor and recomputes control
//     availability when wrapping is disabled,
//   - an authorization [Filter] deciding whose input is honoured.
//
// The chat platform is reached only through the interfaces in host.go:
// a [Message] that can be edited, an [Origin] describing where the pager
// was invoked, and a [ButtonHost] or [ReactionHost] that delivers control
// events as a channel. The discord and messaging packages provide
// implementations for Discord and Matrix.
//
// # Lifecycle
//
// A pager is Created by its constructor, which performs all
// configuration validation. Exec transmits the first page, subscribes to
// control events, and starts one goroutine that consumes them in arrival
// order; the pager is then Running. The session ends on Stop, on a stop
// control, when the time budget or idle timeout expires, when the host
// closes the event channel, or when the Exec context is cancelled. After
// the end the pager is Ended: Done is closed, Reason reports why, Stop is
// a no-op, and Next/Previous return [ErrSessionEnded].
//
// Cursor and surface are guarded by a mutex, and message edits are issued
// while holding it, so programmatic navigation from other goroutines is
// serialized with event handling.
package pagination
