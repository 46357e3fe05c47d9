// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pagination

// Filter decides whether a user's control input is honoured.
type Filter func(userID string) bool

// OnlyUser allows exactly one user.
func OnlyUser(userID string) Filter {
	return func(candidate string) bool { return candidate == userID }
}

// AllowUsers allows any of the listed users. Empty IDs are ignored.
func AllowUsers(userIDs ...string) Filter {
	allowed := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if userID != "" {
			allowed[userID] = struct{}{}
		}
	}
	return func(candidate string) bool {
		_, ok := allowed[candidate]
		return ok
	}
}
