// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service runs the pager bot's operational HTTP endpoint.
//
// [HTTPServer] owns a TCP listener and its graceful shutdown. Serve
// blocks until the context is cancelled and in-flight requests drain.
// [OpsHandler] builds the handler it usually serves: Prometheus
// exposition on /metrics and a liveness probe on /healthz that reports
// the chat connection's health.
package service
