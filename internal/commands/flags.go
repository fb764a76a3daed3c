package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/data/db"
	"github.com/colonyops/pomobot/pkg/utils"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// LogWriter carries console log output when no log file is set
	LogWriter *utils.DeferredWriter

	// Database is opened in the Before hook and closed in the After hook
	Database *db.DB
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pomobot", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pomobot")
}
