package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field)
	}
	return names
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero work", func(c *Config) { c.Pomodoro.Work = 0 }, "pomodoro.work"},
		{"negative short break", func(c *Config) { c.Pomodoro.ShortBreak = -time.Second }, "pomodoro.short_break"},
		{"long break over an hour", func(c *Config) { c.Pomodoro.LongBreak = time.Hour }, "pomodoro.long_break"},
		{"zero cycles", func(c *Config) { c.Pomodoro.CyclesBeforeLongBreak = 0 }, "pomodoro.cycles_before_long_break"},
		{"too many cycles", func(c *Config) { c.Pomodoro.CyclesBeforeLongBreak = 5 }, "pomodoro.cycles_before_long_break"},
		{"negative progress", func(c *Config) { c.Pomodoro.ProgressEvery = -time.Minute }, "pomodoro.progress_every"},
		{"empty command", func(c *Config) { c.Commands.TaskList = "" }, "commands.task_list"},
		{"padded command", func(c *Config) { c.Commands.Help = " !help" }, "commands.help"},
		{"duplicate command", func(c *Config) { c.Commands.PomodoroStop = c.Commands.PomodoroStart }, "commands.pomodoro_stop"},
		{"zero pool", func(c *Config) { c.Database.MaxOpenConns = 0 }, "database.max_open_conns"},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeout = -1 }, "database.busy_timeout"},
		{"zero retention", func(c *Config) { c.History.Retention = 0 }, "history.retention"},
		{"zero sweep interval", func(c *Config) { c.History.SweepInterval = 0 }, "history.sweep_interval"},
		{"empty token env", func(c *Config) { c.Transport.TokenEnv = "" }, "transport.token_env"},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			assert.Contains(t, fieldNames(t, err), tt.wantField)
		})
	}
}

func TestValidate_MaxDurationAccepted(t *testing.T) {
	cfg := validConfig(t)
	cfg.Pomodoro.Work = 59*time.Minute + 59*time.Second
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Pomodoro.Work = 0
	cfg.Commands.Help = ""

	names := fieldNames(t, cfg.Validate())
	assert.Contains(t, names, "pomodoro.work")
	assert.Contains(t, names, "commands.help")
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidate_MessageTemplateSyntax(t *testing.T) {
	cfg := validConfig(t)
	cfg.Messages.Help = "{{ .Commands "

	assert.Contains(t, fieldNames(t, cfg.Validate()), "messages.help")
}

func TestValidateDeep_MessageTemplateUnknownField(t *testing.T) {
	cfg := validConfig(t)
	cfg.Messages.Stats = "{{ .Nope }}"

	err := cfg.ValidateDeep("")
	assert.Contains(t, fieldNames(t, err), "messages.stats")
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())
	assert.Contains(t, fieldNames(t, err), "config_file")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")
	assert.Contains(t, fieldNames(t, err), "data_dir")
}

func TestWarnings(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")

	t.Run("defaults produce no warnings", func(t *testing.T) {
		cfg := validConfig(t)
		assert.Empty(t, cfg.Warnings())
	})

	t.Run("progress not shorter than work", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Pomodoro.ProgressEvery = cfg.Pomodoro.Work

		warnings := cfg.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, "progress_every", warnings[0].Item)
	})

	t.Run("command without prefix", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Commands.TaskAdd = "/add"

		warnings := cfg.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, "task_add", warnings[0].Item)
		assert.True(t, strings.Contains(warnings[0].Message, "/add"))
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Transport.TokenEnv = "POMOBOT_TEST_NO_SUCH_TOKEN"

		warnings := cfg.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, "Transport", warnings[0].Category)
	})
}
