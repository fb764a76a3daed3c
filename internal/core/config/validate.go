package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/pomobot/pkg/tmpl"
)

// HelpTemplateData defines available fields for the messages.help template.
type HelpTemplateData struct {
	Commands []HelpCommand
	Width    int // length of the longest Usage, for alignment with pad
}

// HelpCommand describes one command line in the help reply.
type HelpCommand struct {
	Usage       string // command text plus argument placeholder, e.g. "!task add <description>"
	Description string
}

// StatsTemplateData defines available fields for the messages.stats template.
type StatsTemplateData struct {
	CompletedWork int64
	StoppedWork   int64
	FocusTime     time.Duration
	Breaks        int64
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility. The configPath argument specifies the config file location
// to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateMessageTemplates(),
	)
}

// validateMessageTemplates renders each message template against sample data
// so that references to unknown fields are caught before the bot starts.
func (c *Config) validateMessageTemplates() error {
	var errs criterio.FieldErrorsBuilder

	help := HelpTemplateData{
		Commands: []HelpCommand{{Usage: c.Commands.Help, Description: "show this message"}},
		Width:    len(c.Commands.Help),
	}
	if _, err := tmpl.Render(c.Messages.Help, help); err != nil {
		errs = errs.Append("messages.help", fmt.Errorf("template error: %w", err))
	}

	if _, err := tmpl.Render(c.Messages.Stats, StatsTemplateData{}); err != nil {
		errs = errs.Append("messages.stats", fmt.Errorf("template error: %w", err))
	}

	return errs.ToError()
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	p := c.Pomodoro
	if p.ProgressEvery > 0 && p.ProgressEvery >= p.Work {
		warnings = append(warnings, ValidationWarning{
			Category: "Pomodoro",
			Item:     "progress_every",
			Message:  fmt.Sprintf("progress_every (%s) is not shorter than work (%s); no progress messages will be sent", p.ProgressEvery, p.Work),
		})
	}

	if p.ShortBreak > p.LongBreak {
		warnings = append(warnings, ValidationWarning{
			Category: "Pomodoro",
			Item:     "short_break",
			Message:  "short_break is longer than long_break",
		})
	}

	if c.Commands.Prefix != "" {
		for _, e := range c.Commands.Entries() {
			if !strings.HasPrefix(e.Text, c.Commands.Prefix) {
				warnings = append(warnings, ValidationWarning{
					Category: "Commands",
					Item:     e.Key,
					Message:  fmt.Sprintf("%q does not start with prefix %q", e.Text, c.Commands.Prefix),
				})
			}
		}
	}

	if _, err := c.Transport.Token(); err != nil {
		warnings = append(warnings, ValidationWarning{
			Category: "Transport",
			Item:     c.Transport.TokenEnv,
			Message:  "bot token is not set; only the console transport will work",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
