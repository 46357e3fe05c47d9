// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the pager bot.
//
// Configuration is loaded from a single file specified by either the
// PAGER_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production without its own section
// serves metrics on all interfaces and ends sessions idle for a minute.
//
// The deck path and homeserver URL are expanded after loading:
// ${HOME} and ${VAR:-default} patterns are supported. Secrets never
// live in the file; [DiscordConfig].TokenEnv and
// [MatrixConfig].TokenEnv name the variables that hold them.
//
// This package depends on no other pager packages.
package config
