package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
)

// TaskIndexCompleter returns a ShellCompleteFunc that suggests the task
// numbers of *user's list, with the description as the completion hint.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskIndexCompleter(app *bot.App, user *string) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if user == nil || *user == "" {
			return
		}

		tasks, err := app.Tasks.List(ctx, *user)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for i, t := range tasks {
			_, _ = fmt.Fprintf(w, "%d:%s\n", i+1, t.Description)
		}
	}
}
