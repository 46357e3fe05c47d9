// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the pager packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the select
// with a wall-clock fallback so that a broken session goroutine fails
// the test instead of hanging it. Session timeouts themselves are driven
// by the fake clock in lib/clock; these helpers are the only place tests
// wait on real time.
//
// [UniqueID] generates monotonically increasing identifiers for message
// IDs, event IDs, and transaction IDs in fake hosts.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
