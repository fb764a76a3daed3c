// Package config handles configuration loading and validation for pomobot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/pkg/tmpl"
)

// Config holds the application configuration.
type Config struct {
	Pomodoro  PomodoroConfig  `yaml:"pomodoro"`
	Commands  Commands        `yaml:"commands"`
	Database  DatabaseConfig  `yaml:"database"`
	History   HistoryConfig   `yaml:"history"`
	Transport TransportConfig `yaml:"transport"`
	Messages  Messages        `yaml:"messages"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// PomodoroConfig holds phase lengths and notification cadence.
type PomodoroConfig struct {
	Work                  time.Duration `yaml:"work"`
	ShortBreak            time.Duration `yaml:"short_break"`
	LongBreak             time.Duration `yaml:"long_break"`
	CyclesBeforeLongBreak int           `yaml:"cycles_before_long_break"`
	AutoBreak             bool          `yaml:"auto_break"`     // start the break as soon as work completes
	ProgressEvery         time.Duration `yaml:"progress_every"` // 0 disables progress messages
}

// Durations converts the config into the session's phase lengths.
func (p PomodoroConfig) Durations() pomodoro.Durations {
	return pomodoro.Durations{
		Work:        p.Work,
		ShortBreak:  p.ShortBreak,
		LongBreak:   p.LongBreak,
		LongBreakAt: p.CyclesBeforeLongBreak,
	}
}

// Commands defines the chat command strings the bot answers to.
type Commands struct {
	Prefix        string `yaml:"prefix"` // informational, shown in help
	Help          string `yaml:"help"`
	TaskAdd       string `yaml:"task_add"`
	TaskRemove    string `yaml:"task_remove"`
	TaskList      string `yaml:"task_list"`
	PomodoroStart string `yaml:"pomodoro_start"`
	PomodoroCheck string `yaml:"pomodoro_check"`
	PomodoroStop  string `yaml:"pomodoro_stop"`
	PomodoroBreak string `yaml:"pomodoro_break"`
	PomodoroStats string `yaml:"pomodoro_stats"`
}

// CommandEntry pairs a command's config key with its text.
type CommandEntry struct {
	Key  string
	Text string
}

// Entries returns every command in help order.
func (c Commands) Entries() []CommandEntry {
	return []CommandEntry{
		{"help", c.Help},
		{"task_add", c.TaskAdd},
		{"task_remove", c.TaskRemove},
		{"task_list", c.TaskList},
		{"pomodoro_start", c.PomodoroStart},
		{"pomodoro_check", c.PomodoroCheck},
		{"pomodoro_stop", c.PomodoroStop},
		{"pomodoro_break", c.PomodoroBreak},
		{"pomodoro_stats", c.PomodoroStats},
	}
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// HistoryConfig controls retention of finished pomodoro records.
type HistoryConfig struct {
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// TransportConfig configures the chat transport.
type TransportConfig struct {
	TokenEnv string `yaml:"token_env"` // environment variable holding the bot token
}

// Token reads the bot token from the configured environment variable.
func (t TransportConfig) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(t.TokenEnv))
	if token == "" {
		return "", fmt.Errorf("%s is not set", t.TokenEnv)
	}
	return token, nil
}

// Messages holds Go templates for the longer chat replies. See
// HelpTemplateData and StatsTemplateData for the available fields.
type Messages struct {
	Help  string `yaml:"help"`
	Stats string `yaml:"stats"`
}

const defaultHelpTemplate = `Hello, I'm pomodoro bot!

{{ range .Commands }}{{ pad .Usage $.Width }}  {{ .Description }}
{{ end }}
- PomodoroBot`

const defaultStatsTemplate = `{{ .CompletedWork }} completed {{ plural .CompletedWork "pomodoro" "pomodoros" }} ({{ minutes .FocusTime }} focus minutes), {{ .StoppedWork }} stopped, {{ .Breaks }} {{ plural .Breaks "break" "breaks" }} taken.`

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Pomodoro: PomodoroConfig{
			Work:                  25 * time.Minute,
			ShortBreak:            5 * time.Minute,
			LongBreak:             15 * time.Minute,
			CyclesBeforeLongBreak: pomodoro.CyclesPerRotation,
			ProgressEvery:         5 * time.Minute,
		},
		Commands: Commands{
			Prefix:        "!",
			Help:          "!help",
			TaskAdd:       "!task add",
			TaskRemove:    "!task remove",
			TaskList:      "!task list",
			PomodoroStart: "!pomodoro start",
			PomodoroCheck: "!pomodoro check",
			PomodoroStop:  "!pomodoro stop",
			PomodoroBreak: "!pomodoro break",
			PomodoroStats: "!pomodoro stats",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		History: HistoryConfig{
			Retention:     30 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Transport: TransportConfig{
			TokenEnv: "BOT_TOKEN",
		},
		Messages: Messages{
			Help:  defaultHelpTemplate,
			Stats: defaultStatsTemplate,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Pomodoro.Work == 0 {
		c.Pomodoro.Work = defaults.Pomodoro.Work
	}
	if c.Pomodoro.ShortBreak == 0 {
		c.Pomodoro.ShortBreak = defaults.Pomodoro.ShortBreak
	}
	if c.Pomodoro.LongBreak == 0 {
		c.Pomodoro.LongBreak = defaults.Pomodoro.LongBreak
	}
	if c.Pomodoro.CyclesBeforeLongBreak == 0 {
		c.Pomodoro.CyclesBeforeLongBreak = defaults.Pomodoro.CyclesBeforeLongBreak
	}

	c.Commands.applyDefaults(defaults.Commands)

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}

	if c.History.Retention == 0 {
		c.History.Retention = defaults.History.Retention
	}
	if c.History.SweepInterval == 0 {
		c.History.SweepInterval = defaults.History.SweepInterval
	}

	if c.Transport.TokenEnv == "" {
		c.Transport.TokenEnv = defaults.Transport.TokenEnv
	}

	if strings.TrimSpace(c.Messages.Help) == "" {
		c.Messages.Help = defaults.Messages.Help
	}
	if strings.TrimSpace(c.Messages.Stats) == "" {
		c.Messages.Stats = defaults.Messages.Stats
	}
}

func (c *Commands) applyDefaults(d Commands) {
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Prefix, d.Prefix)
	fill(&c.Help, d.Help)
	fill(&c.TaskAdd, d.TaskAdd)
	fill(&c.TaskRemove, d.TaskRemove)
	fill(&c.TaskList, d.TaskList)
	fill(&c.PomodoroStart, d.PomodoroStart)
	fill(&c.PomodoroCheck, d.PomodoroCheck)
	fill(&c.PomodoroStop, d.PomodoroStop)
	fill(&c.PomodoroBreak, d.PomodoroBreak)
	fill(&c.PomodoroStats, d.PomodoroStats)
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		c.validatePomodoro(),
		c.validateCommands(),
		c.validateDatabase(),
		c.validateHistory(),
		criterio.Run("transport.token_env", c.Transport.TokenEnv, notEmpty),
		criterio.Run("messages.help", c.Messages.Help, tmpl.Validate),
		criterio.Run("messages.stats", c.Messages.Stats, tmpl.Validate),
	)
}

func (c *Config) validatePomodoro() error {
	p := c.Pomodoro
	return criterio.ValidateStruct(
		criterio.Run("pomodoro.work", p.Work, phaseDuration),
		criterio.Run("pomodoro.short_break", p.ShortBreak, phaseDuration),
		criterio.Run("pomodoro.long_break", p.LongBreak, phaseDuration),
		criterio.Run("pomodoro.cycles_before_long_break", p.CyclesBeforeLongBreak, func(n int) error {
			if n < 1 || n > pomodoro.CyclesPerRotation {
				return fmt.Errorf("must be between 1 and %d", pomodoro.CyclesPerRotation)
			}
			return nil
		}),
		criterio.Run("pomodoro.progress_every", p.ProgressEvery, func(d time.Duration) error {
			if d < 0 {
				return fmt.Errorf("cannot be negative")
			}
			return nil
		}),
	)
}

func (c *Config) validateCommands() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]string)

	for _, e := range c.Commands.Entries() {
		field := "commands." + e.Key
		switch {
		case strings.TrimSpace(e.Text) == "":
			errs = errs.Append(field, fmt.Errorf("cannot be empty"))
		case strings.TrimSpace(e.Text) != e.Text:
			errs = errs.Append(field, fmt.Errorf("cannot have surrounding whitespace"))
		default:
			if other, ok := seen[e.Text]; ok {
				errs = errs.Append(field, fmt.Errorf("%q is already used by commands.%s", e.Text, other))
				continue
			}
			seen[e.Text] = e.Key
		}
	}

	return errs.ToError()
}

func (c *Config) validateDatabase() error {
	d := c.Database
	return criterio.ValidateStruct(
		criterio.Run("database.max_open_conns", d.MaxOpenConns, atLeastOne),
		criterio.Run("database.max_idle_conns", d.MaxIdleConns, atLeastOne),
		criterio.Run("database.busy_timeout", d.BusyTimeout, func(ms int) error {
			if ms < 0 {
				return fmt.Errorf("cannot be negative")
			}
			return nil
		}),
	)
}

func (c *Config) validateHistory() error {
	return criterio.ValidateStruct(
		criterio.Run("history.retention", c.History.Retention, positive),
		criterio.Run("history.sweep_interval", c.History.SweepInterval, positive),
	)
}

func phaseDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	if d > pomodoro.MaxDuration {
		return fmt.Errorf("must not exceed %s", pomodoro.MaxDuration)
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}
