package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/printer"
)

type PruneCmd struct {
	flags *Flags
	app   *bot.App

	olderThan time.Duration
}

// NewPruneCmd creates a new prune command
func NewPruneCmd(flags *Flags, app *bot.App) *PruneCmd {
	return &PruneCmd{flags: flags, app: app}
}

// Register adds the prune command to the application
func (cmd *PruneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prune",
		Usage:     "Delete old pomodoro history",
		UsageText: "pomobot prune [--older-than <duration>]",
		Description: `Deletes pomodoro history records that ended before the cutoff. The
default cutoff is history.retention from the config file. The running bot
does this on its own every history.sweep_interval.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "older-than",
				Usage:       "delete records older than this (defaults to history.retention)",
				Destination: &cmd.olderThan,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PruneCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	olderThan := cmd.olderThan
	if olderThan <= 0 {
		olderThan = cmd.flags.Config.History.Retention
	}

	count, err := cmd.app.History.SweepBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	if count == 0 {
		p.Infof("No history older than %s", olderThan)
		return nil
	}

	p.Successf("Pruned %d record(s)", count)

	return nil
}
