// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

import (
	"context"
	"testing"

	"github.com/bureau-foundation/pager/lib/testutil"
)

func TestFeedsDeliver(t *testing.T) {
	var feeds Feeds[string]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := feeds.Subscribe(ctx, "m1")
	if !feeds.Subscribed("m1") {
		t.Fatal("m1 not subscribed")
	}
	if feeds.Deliver("m2", "lost") {
		t.Error("delivery to an unsubscribed message reported success")
	}
	if !feeds.Deliver("m1", "hello") {
		t.Fatal("delivery to m1 failed")
	}
	if got := testutil.RequireReceive(t, events, waitTimeout); got != "hello" {
		t.Errorf("received %q, want hello", got)
	}
}

func TestFeedsCloseOnCancel(t *testing.T) {
	var feeds Feeds[int]
	ctx, cancel := context.WithCancel(context.Background())
	events := feeds.Subscribe(ctx, "m1")
	cancel()

	for range events {
	}
	if feeds.Subscribed("m1") {
		t.Error("m1 still subscribed after cancel")
	}
	if feeds.Deliver("m1", 1) {
		t.Error("delivery after cancel reported success")
	}
}

func TestFeedsReplace(t *testing.T) {
	var feeds Feeds[int]
	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	first := feeds.Subscribe(firstCtx, "m1")
	secondCtx, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()
	second := feeds.Subscribe(secondCtx, "m1")

	// The replaced feed closes while its own context is still live.
	closed := make(chan struct{})
	go func() {
		for range first {
		}
		close(closed)
	}()
	testutil.RequireClosed(t, closed, waitTimeout, "replaced feed still open")

	// Ending the replaced feed's context must not unregister its successor.
	cancelFirst()
	if !feeds.Deliver("m1", 7) {
		t.Fatal("replacement feed was unregistered")
	}
	if got := testutil.RequireReceive(t, second, waitTimeout); got != 7 {
		t.Errorf("received %d, want 7", got)
	}
}

func TestFeedsReplaceUnblocksDelivery(t *testing.T) {
	var feeds Feeds[int]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feeds.Subscribe(ctx, "m1")
	for i := 0; i < feedBuffer; i++ {
		feeds.Deliver("m1", i)
	}

	delivered := make(chan struct{})
	go func() {
		feeds.Deliver("m1", -1)
		close(delivered)
	}()
	feeds.Subscribe(ctx, "m1")
	testutil.RequireClosed(t, delivered, waitTimeout, "blocked delivery after replacement")
}

func TestFeedsDeliverUnblocksOnCancel(t *testing.T) {
	var feeds Feeds[int]
	ctx, cancel := context.WithCancel(context.Background())
	feeds.Subscribe(ctx, "m1")
	for i := 0; i < feedBuffer; i++ {
		feeds.Deliver("m1", i)
	}

	delivered := make(chan struct{})
	go func() {
		feeds.Deliver("m1", -1)
		close(delivered)
	}()
	cancel()
	testutil.RequireClosed(t, delivered, waitTimeout, "blocked delivery after cancel")
}
