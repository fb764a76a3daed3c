package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/validate"
	"github.com/colonyops/pomobot/pkg/iojson"
	"github.com/colonyops/pomobot/pkg/tmpl"
)

type StatsCmd struct {
	flags *Flags
	app   *bot.App

	user   string
	format string
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *bot.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show a user's pomodoro history summary",
		UsageText: "pomobot stats --user <id> [--format text|json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "user id",
				Sources:     cli.EnvVars("POMOBOT_USER"),
				Required:    true,
				Destination: &cmd.user,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	if err := validate.UserIDField("user", cmd.user); err != nil {
		return err
	}

	stats, err := cmd.app.Pomodoro.Stats(ctx, cmd.user)
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		out := struct {
			CompletedWork int64 `json:"completed_work"`
			StoppedWork   int64 `json:"stopped_work"`
			FocusSeconds  int64 `json:"focus_seconds"`
			Breaks        int64 `json:"breaks"`
		}{
			CompletedWork: stats.CompletedWork,
			StoppedWork:   stats.StoppedWork,
			FocusSeconds:  int64(stats.FocusTime.Seconds()),
			Breaks:        stats.Breaks,
		}
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	text, err := tmpl.Render(cmd.flags.Config.Messages.Stats, config.StatsTemplateData(stats))
	if err != nil {
		return fmt.Errorf("render stats: %w", err)
	}
	_, err = fmt.Fprintln(c.Root().Writer, text)
	return err
}
