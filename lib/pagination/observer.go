// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

// Variant names the pager kind for logs and metrics.
type Variant string

const (
	VariantButton   Variant = "button"
	VariantReaction Variant = "reaction"
)

// Observer receives session lifecycle notifications. Methods are called
// from the session goroutine (or from Exec) and must not block.
type Observer interface {
	SessionStarted(variant Variant)
	ControlUsed(variant Variant, action Action)
	Denied(variant Variant)
	SessionEnded(variant Variant, reason EndReason)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(Variant)          {}
func (nopObserver) ControlUsed(Variant, Action)     {}
func (nopObserver) Denied(Variant)                  {}
func (nopObserver) SessionEnded(Variant, EndReason) {}
