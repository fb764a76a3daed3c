package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/integration/console"
)

type ConsoleCmd struct {
	flags *Flags
	app   *bot.App

	user string
}

// NewConsoleCmd creates a new console command
func NewConsoleCmd(flags *Flags, app *bot.App) *ConsoleCmd {
	return &ConsoleCmd{flags: flags, app: app}
}

// Register adds the console command to the application
func (cmd *ConsoleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "console",
		Usage:     "Chat with the bot from the terminal",
		UsageText: "pomobot console [--user <id>]",
		Description: `Reads one message per line from stdin and prints the bot's replies to
stdout. Tasks and pomodoro history are stored in the same database as
'pomobot run', under the given user id.

Log output is held back until the console exits so it does not interleave
with the conversation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "user id messages are sent as",
				Value:       "console",
				Destination: &cmd.user,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ConsoleCmd) run(ctx context.Context, c *cli.Command) error {
	if w := cmd.flags.LogWriter; w != nil {
		w.Hold()
		defer func() { _ = w.Release() }()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out := c.Root().Writer
	_, _ = fmt.Fprintf(out, "Talking to pomobot as %q. Type %s for commands, Ctrl-D to quit.\n", cmd.user, cmd.flags.Config.Commands.Help)

	transport := console.New(os.Stdin, out, cmd.user)
	return serve(ctx, cmd.app, transport)
}
