// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Host names the chat platform the bot connects to.
type Host string

const (
	HostDiscord Host = "discord"
	HostMatrix  Host = "matrix"
)

// Config is the configuration for the pager bot.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Host selects the chat platform. The --host flag overrides it.
	Host Host `yaml:"host"`

	// Pager holds the options applied to every pagination session.
	Pager PagerConfig `yaml:"pager"`

	// Discord configures the Discord gateway connection.
	Discord DiscordConfig `yaml:"discord"`

	// Matrix configures the Matrix homeserver connection.
	Matrix MatrixConfig `yaml:"matrix"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Deck locates the pages served by the bot.
	Deck DeckConfig `yaml:"deck"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Pager   *PagerConfig   `yaml:"pager,omitempty"`
	Discord *DiscordConfig `yaml:"discord,omitempty"`
	Matrix  *MatrixConfig  `yaml:"matrix,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
	Deck    *DeckConfig    `yaml:"deck,omitempty"`
}

// PagerConfig holds the pagination options. Durations are Go duration
// strings ("90s", "5m").
type PagerConfig struct {
	// Timeout is the session time budget.
	// Default: 90s
	Timeout string `yaml:"timeout"`

	// IdleTimeout ends a session after this long without a control
	// press. Empty disables it.
	IdleTimeout string `yaml:"idle_timeout"`

	DisableWrap    bool   `yaml:"disable_wrap"`
	AppendPageInfo bool   `yaml:"append_page_info"`
	PageInfoFormat string `yaml:"page_info_format"`

	// ErrorMessage is the private notice for unauthorized button
	// presses. Empty keeps the library default.
	ErrorMessage string `yaml:"error_message"`

	// AllowedUsers may drive every pager in addition to its invoker.
	AllowedUsers []string `yaml:"allowed_users"`

	// DisableButtonsOnFinish changes nothing on its own: buttons are
	// disabled at the end unless remove_buttons_on_finish is set.
	DisableButtonsOnFinish bool  `yaml:"disable_buttons_on_finish"`
	RemoveButtonsOnFinish  bool  `yaml:"remove_buttons_on_finish"`
	RemoveUserReactions    bool  `yaml:"remove_user_reactions"`
	RemoveAllReactions     bool  `yaml:"remove_all_reactions"`
	IncludePrevious        *bool `yaml:"include_previous,omitempty"`
	IncludeStop            *bool `yaml:"include_stop,omitempty"`

	Controls ControlsConfig `yaml:"controls"`
}

// ControlsConfig overrides the look of each control.
type ControlsConfig struct {
	Previous ControlConfig `yaml:"previous"`
	Next     ControlConfig `yaml:"next"`
	Stop     ControlConfig `yaml:"stop"`
}

// ControlConfig overrides one control. Empty fields keep the defaults.
type ControlConfig struct {
	Label string `yaml:"label"`

	// Style is one of primary, secondary, success, danger.
	Style string `yaml:"style"`

	// Emoji is a unicode emoji, or the name of a custom emoji when
	// EmojiID is set.
	Emoji   string `yaml:"emoji"`
	EmojiID string `yaml:"emoji_id"`

	Disable bool `yaml:"disable"`
	Exclude bool `yaml:"exclude"`
}

// DiscordConfig configures the Discord host.
type DiscordConfig struct {
	// TokenEnv names the environment variable holding the bot token.
	// Default: DISCORD_TOKEN
	TokenEnv string `yaml:"token_env"`

	// GuildID scopes the slash command to one guild. Empty registers it
	// globally.
	GuildID string `yaml:"guild_id"`

	// Prefix is the message command that starts a pager.
	// Default: !pages
	Prefix string `yaml:"prefix"`

	// CommandName is the slash command that starts a pager.
	// Default: pages
	CommandName string `yaml:"command_name"`
}

// MatrixConfig configures the Matrix host.
type MatrixConfig struct {
	// Homeserver is the client-server API base URL.
	Homeserver string `yaml:"homeserver"`

	// UserID is the bot's Matrix user ID (@pager:example.org).
	UserID string `yaml:"user_id"`

	// TokenEnv names the environment variable holding the access token.
	// Default: MATRIX_ACCESS_TOKEN
	TokenEnv string `yaml:"token_env"`

	// Room is the room ID the bot watches for commands.
	Room string `yaml:"room"`

	// Prefix is the message body that starts a pager.
	// Default: !pages
	Prefix string `yaml:"prefix"`

	// RequestsPerSecond and Burst limit client-server API requests.
	// Default: 5 per second, burst 10
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the address serving /metrics and /healthz. Empty
	// disables the endpoint.
	// Default: 127.0.0.1:9464
	Listen string `yaml:"listen"`
}

// DeckConfig locates the deck file.
type DeckConfig struct {
	// Path is a .json, .jsonc, .yaml, or .yml deck. ${HOME} and
	// ${PAGER_ROOT} are expanded.
	Path string `yaml:"path"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Host:        HostDiscord,
		Pager: PagerConfig{
			Timeout: "90s",
		},
		Discord: DiscordConfig{
			TokenEnv:    "DISCORD_TOKEN",
			Prefix:      "!pages",
			CommandName: "pages",
		},
		Matrix: MatrixConfig{
			TokenEnv:          "MATRIX_ACCESS_TOKEN",
			Prefix:            "!pages",
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9464",
		},
		Deck: DeckConfig{
			Path: "${PAGER_ROOT:-.}/deck.yaml",
		},
	}
}

// Load loads configuration from the PAGER_CONFIG environment variable.
//
// There are no fallbacks or defaults - if PAGER_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("PAGER_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PAGER_CONFIG environment variable not set; " +
			"set it to the path of your pager.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// Environment variables do not override config values. Secrets are read
// from the variables the config names, and ${VAR} patterns in the deck
// path are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: scrape from outside the host, and end
		// abandoned sessions early.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Pager:   &PagerConfig{IdleTimeout: "60s"},
				Metrics: &MetricsConfig{Listen: ":9464"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Pager != nil {
		if overrides.Pager.Timeout != "" {
			c.Pager.Timeout = overrides.Pager.Timeout
		}
		if overrides.Pager.IdleTimeout != "" {
			c.Pager.IdleTimeout = overrides.Pager.IdleTimeout
		}
		if overrides.Pager.ErrorMessage != "" {
			c.Pager.ErrorMessage = overrides.Pager.ErrorMessage
		}
		if len(overrides.Pager.AllowedUsers) > 0 {
			c.Pager.AllowedUsers = overrides.Pager.AllowedUsers
		}
	}

	if overrides.Discord != nil {
		if overrides.Discord.TokenEnv != "" {
			c.Discord.TokenEnv = overrides.Discord.TokenEnv
		}
		if overrides.Discord.GuildID != "" {
			c.Discord.GuildID = overrides.Discord.GuildID
		}
		if overrides.Discord.Prefix != "" {
			c.Discord.Prefix = overrides.Discord.Prefix
		}
		if overrides.Discord.CommandName != "" {
			c.Discord.CommandName = overrides.Discord.CommandName
		}
	}

	if overrides.Matrix != nil {
		if overrides.Matrix.Homeserver != "" {
			c.Matrix.Homeserver = overrides.Matrix.Homeserver
		}
		if overrides.Matrix.UserID != "" {
			c.Matrix.UserID = overrides.Matrix.UserID
		}
		if overrides.Matrix.TokenEnv != "" {
			c.Matrix.TokenEnv = overrides.Matrix.TokenEnv
		}
		if overrides.Matrix.Room != "" {
			c.Matrix.Room = overrides.Matrix.Room
		}
		if overrides.Matrix.RequestsPerSecond > 0 {
			c.Matrix.RequestsPerSecond = overrides.Matrix.RequestsPerSecond
		}
		if overrides.Matrix.Burst > 0 {
			c.Matrix.Burst = overrides.Matrix.Burst
		}
	}

	if overrides.Metrics != nil && overrides.Metrics.Listen != "" {
		c.Metrics.Listen = overrides.Metrics.Listen
	}

	if overrides.Deck != nil && overrides.Deck.Path != "" {
		c.Deck.Path = overrides.Deck.Path
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Deck.Path = expandVars(c.Deck.Path, vars)
	c.Matrix.Homeserver = expandVars(c.Matrix.Homeserver, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// SessionTimeout returns the parsed pager.timeout.
func (p PagerConfig) SessionTimeout() (time.Duration, error) {
	return parseDuration("pager.timeout", p.Timeout)
}

// SessionIdleTimeout returns the parsed pager.idle_timeout, or zero
// when unset.
func (p PagerConfig) SessionIdleTimeout() (time.Duration, error) {
	return parseDuration("pager.idle_timeout", p.IdleTimeout)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", field, value)
	}
	return duration, nil
}

// Token returns the Discord bot token from the configured variable.
func (d DiscordConfig) Token() string { return os.Getenv(d.TokenEnv) }

// AccessToken returns the Matrix access token from the configured
// variable.
func (m MatrixConfig) AccessToken() string { return os.Getenv(m.TokenEnv) }

var controlStyles = []string{"", "primary", "secondary", "success", "danger"}

// Validate checks the configuration for errors. Every problem is
// reported, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if _, err := c.Pager.SessionTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Pager.SessionIdleTimeout(); err != nil {
		errs = append(errs, err)
	}
	for name, control := range map[string]ControlConfig{
		"previous": c.Pager.Controls.Previous,
		"next":     c.Pager.Controls.Next,
		"stop":     c.Pager.Controls.Stop,
	} {
		if !slices.Contains(controlStyles, control.Style) {
			errs = append(errs, fmt.Errorf("pager.controls.%s.style must be one of: %v", name, controlStyles[1:]))
		}
		if control.EmojiID != "" && control.Emoji == "" {
			errs = append(errs, fmt.Errorf("pager.controls.%s.emoji is required with emoji_id", name))
		}
	}

	switch c.Host {
	case HostDiscord:
		if c.Discord.TokenEnv == "" {
			errs = append(errs, fmt.Errorf("discord.token_env is required"))
		}
		if c.Discord.Prefix == "" && c.Discord.CommandName == "" {
			errs = append(errs, fmt.Errorf("discord.prefix or discord.command_name is required"))
		}
	case HostMatrix:
		if c.Matrix.Homeserver == "" {
			errs = append(errs, fmt.Errorf("matrix.homeserver is required"))
		}
		if c.Matrix.UserID == "" {
			errs = append(errs, fmt.Errorf("matrix.user_id is required"))
		}
		if c.Matrix.TokenEnv == "" {
			errs = append(errs, fmt.Errorf("matrix.token_env is required"))
		}
		if c.Matrix.Room == "" {
			errs = append(errs, fmt.Errorf("matrix.room is required"))
		}
		if c.Matrix.Prefix == "" {
			errs = append(errs, fmt.Errorf("matrix.prefix is required"))
		}
		if c.Matrix.RequestsPerSecond <= 0 || c.Matrix.Burst <= 0 {
			errs = append(errs, fmt.Errorf("matrix.requests_per_second and matrix.burst must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("host must be one of: %s, %s", HostDiscord, HostMatrix))
	}

	if c.Deck.Path == "" {
		errs = append(errs, fmt.Errorf("deck.path is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
