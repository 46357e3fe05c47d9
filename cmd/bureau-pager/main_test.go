// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pager/lib/config"
	"github.com/bureau-foundation/pager/lib/service"
	"github.com/bureau-foundation/pager/lib/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pager.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func parseFlags(t *testing.T, args ...string) (*flags, *pflag.FlagSet) {
	t.Helper()
	values := &flags{}
	flagSet := newFlagSet(values)
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("parsing %v: %v", args, err)
	}
	return values, flagSet
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
host: discord
deck:
  path: /srv/deck.yaml
metrics:
  listen: 127.0.0.1:9999
matrix:
  homeserver: http://localhost:6167
  user_id: "@pager:local"
  room: "!room:local"
`)

	values, flagSet := parseFlags(t,
		"--config", path,
		"--deck", "/tmp/other.jsonc",
		"--host", "matrix",
		"--metrics-listen", "",
	)
	cfg, err := loadConfig(*values, flagSet)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Deck.Path != "/tmp/other.jsonc" {
		t.Errorf("deck path = %q", cfg.Deck.Path)
	}
	if cfg.Host != config.HostMatrix {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.Metrics.Listen != "" {
		t.Errorf("metrics listen = %q, want disabled", cfg.Metrics.Listen)
	}
}

func TestLoadConfigKeepsUnsetFlags(t *testing.T) {
	path := writeConfig(t, `
deck:
  path: /srv/deck.yaml
metrics:
  listen: 127.0.0.1:9999
`)
	values, flagSet := parseFlags(t, "--config", path)
	cfg, err := loadConfig(*values, flagSet)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Metrics.Listen != "127.0.0.1:9999" || cfg.Deck.Path != "/srv/deck.yaml" || cfg.Host != config.HostDiscord {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "deck:\n  path: /srv/deck.yaml\n")
	values, flagSet := parseFlags(t, "--config", path, "--host", "irc")
	_, err := loadConfig(*values, flagSet)
	if err == nil || !strings.Contains(err.Error(), "host must be one of") {
		t.Fatalf("expected host validation error, got %v", err)
	}
}

func TestStartOpsServerDisabled(t *testing.T) {
	done, err := startOpsServer(context.Background(), "", prometheus.NewRegistry(), newConnectionHealth(), discardLogger())
	if err != nil {
		t.Fatalf("startOpsServer: %v", err)
	}
	if err := testutil.RequireReceive(t, done, waitTimeout); err != nil {
		t.Errorf("disabled server result = %v", err)
	}
}

func TestHealthEndpointFollowsConnection(t *testing.T) {
	health := newConnectionHealth()
	handler := service.OpsHandler(prometheus.NewRegistry(), health.check)

	probe := func() int {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		return recorder.Code
	}

	if got := probe(); got != http.StatusServiceUnavailable {
		t.Errorf("before connect: status = %d, want 503", got)
	}
	health.set(nil)
	if got := probe(); got != http.StatusOK {
		t.Errorf("after connect: status = %d, want 200", got)
	}
	health.set(errGatewayDisconnected)
	if got := probe(); got != http.StatusServiceUnavailable {
		t.Errorf("after disconnect: status = %d, want 503", got)
	}
}

func TestConnectionHealth(t *testing.T) {
	health := newConnectionHealth()
	if !errors.Is(health.check(), errNotConnected) {
		t.Errorf("initial state = %v, want errNotConnected", health.check())
	}
	health.set(nil)
	if health.check() != nil {
		t.Errorf("connected state = %v", health.check())
	}
	health.set(errGatewayDisconnected)
	if !errors.Is(health.check(), errGatewayDisconnected) {
		t.Errorf("disconnected state = %v", health.check())
	}
}
