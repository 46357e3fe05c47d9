// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source behind pager
// timeouts.
//
// Sessions take a [Clock] through their options. Production code leaves
// it nil and gets [Real]; tests pass a [FakeClock] from [Fake], start
// a session, and call Advance to expire its time budget or idle timeout
// without sleeping:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	pager, _ := pagination.NewButtonPager(host, pages, origin, pagination.ButtonOptions{
//	    Options: pagination.Options{Clock: fake},
//	})
//	pager.Exec(ctx)
//	fake.Advance(pagination.DefaultTimeout)
//
// Timers registered with a FakeClock fire only from Advance, in deadline
// order. WaitForTimers blocks until a goroutine has registered the
// timers a test is about to expire.
package clock
