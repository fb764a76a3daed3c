package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/pomobot/internal/core/config"
)

// ConfigCheck validates the loaded configuration and reports its warnings.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a new config check. path is the config file location.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.cfg.ValidateDeep(c.path); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Items = append(result.Items, CheckItem{
					Label:  fe.Field,
					Status: StatusFail,
					Detail: fe.Err.Error(),
				})
			}
		} else {
			result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusFail, Detail: err.Error()})
		}
	} else {
		result.Items = append(result.Items, CheckItem{Label: "config", Status: StatusPass, Detail: c.path})
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label = w.Category + " " + w.Item
		}
		result.Items = append(result.Items, CheckItem{Label: label, Status: StatusWarn, Detail: w.Message})
	}

	return result
}

// TokenCheck verifies that the bot token is available in the environment.
type TokenCheck struct {
	transport config.TransportConfig
}

// NewTokenCheck creates a new token check.
func NewTokenCheck(transport config.TransportConfig) *TokenCheck {
	return &TokenCheck{transport: transport}
}

func (c *TokenCheck) Name() string {
	return "Transport"
}

func (c *TokenCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := c.transport.Token(); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.transport.TokenEnv,
			Status: StatusWarn,
			Detail: "not set (required by 'pomobot run')",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{Label: c.transport.TokenEnv, Status: StatusPass, Detail: "set"})
	return result
}

// DatabaseCheck runs SQLite's integrity check against the open database.
type DatabaseCheck struct {
	conn *sql.DB
}

// NewDatabaseCheck creates a new database check.
func NewDatabaseCheck(conn *sql.DB) *DatabaseCheck {
	return &DatabaseCheck{conn: conn}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.conn == nil {
		result.Items = append(result.Items, CheckItem{Label: "connection", Status: StatusFail, Detail: "database is not open"})
		return result
	}

	var status string
	if err := c.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&status); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusFail, Detail: err.Error()})
		return result
	}
	if status != "ok" {
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusFail, Detail: status})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusPass, Detail: "ok"})

	var tasks int64
	if err := c.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&tasks); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "tasks", Status: StatusFail, Detail: err.Error()})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "tasks", Status: StatusPass, Detail: fmt.Sprintf("%d stored", tasks)})

	return result
}
