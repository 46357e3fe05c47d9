// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
)

// MatrixError is the error body a homeserver returns with a non-2xx
// status. Unwrap it with errors.As, or test the code with IsMatrixError.
type MatrixError struct {
	Code    string `json:"errcode"`
	Message string `json:"error"`
	// RetryAfterMillis accompanies M_LIMIT_EXCEEDED.
	RetryAfterMillis int64 `json:"retry_after_ms,omitempty"`
	StatusCode       int   `json:"-"`
}

func (e *MatrixError) Error() string {
	return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

const (
	// ErrCodeForbidden is returned when the bot may not act in a room,
	// for example when redacting a reaction it lacks power to remove.
	ErrCodeForbidden = "M_FORBIDDEN"

	// ErrCodeUnknownToken means the access token was revoked or never
	// valid. Retrying cannot succeed.
	ErrCodeUnknownToken = "M_UNKNOWN_TOKEN"

	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
)

// IsMatrixError reports whether err wraps a *MatrixError with code.
func IsMatrixError(err error, code string) bool {
	var matrixErr *MatrixError
	return errors.As(err, &matrixErr) && matrixErr.Code == code
}

// IsTokenRejected reports whether the homeserver refused the session's
// access token.
func IsTokenRejected(err error) bool {
	return IsMatrixError(err, ErrCodeUnknownToken)
}
