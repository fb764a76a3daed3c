package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/core/validate"
	"github.com/colonyops/pomobot/internal/printer"
	"github.com/colonyops/pomobot/pkg/iojson"
)

// TaskInput is one entry of a task import file.
type TaskInput struct {
	Description string `json:"description"`
}

// TasksCmd implements the pomobot tasks command group.
type TasksCmd struct {
	flags *Flags
	app   *bot.App

	user   string
	reader iojson.FileReader[[]TaskInput]
}

// NewTasksCmd creates a new tasks command.
func NewTasksCmd(flags *Flags, app *bot.App) *TasksCmd {
	return &TasksCmd{flags: flags, app: app}
}

// Register adds the tasks command to the application.
func (cmd *TasksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "tasks",
		Usage: "Manage a user's task list",
		Description: `Task commands operate directly on the bot's database, scoped to the
user given with --user. Changes are visible to the running bot immediately.

Examples:
  pomobot tasks list --user 42
  pomobot tasks add --user 42 Buy milk
  pomobot tasks remove --user 42 1
  pomobot tasks import --user 42 -f tasks.json`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.addCmd(),
			cmd.removeCmd(),
			cmd.importCmd(),
		},
	})

	return app
}

func (cmd *TasksCmd) userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "user",
		Aliases:     []string{"u"},
		Usage:       "user id that owns the tasks",
		Sources:     cli.EnvVars("POMOBOT_USER"),
		Required:    true,
		Destination: &cmd.user,
	}
}

func (cmd *TasksCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Aliases:     []string{"ls"},
		Usage:       "List tasks as JSON lines",
		UsageText:   "pomobot tasks list --user <id>",
		Description: "Prints one JSON object per task in list order.",
		Flags:       []cli.Flag{cmd.userFlag()},
		Action:      cmd.runList,
	}
}

func (cmd *TasksCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "pomobot tasks add --user <id> <description...>",
		Flags:     []cli.Flag{cmd.userFlag()},
		Action:    cmd.runAdd,
	}
}

func (cmd *TasksCmd) removeCmd() *cli.Command {
	return &cli.Command{
		Name:          "remove",
		Aliases:       []string{"rm"},
		Usage:         "Remove a task by its list position",
		UsageText:     "pomobot tasks remove --user <id> <n>",
		Flags:         []cli.Flag{cmd.userFlag()},
		ShellComplete: TaskIndexCompleter(cmd.app, &cmd.user),
		Action:        cmd.runRemove,
	}
}

func (cmd *TasksCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Append tasks from a JSON array",
		UsageText: "pomobot tasks import --user <id> [-f tasks.json]",
		Description: `Reads a JSON array of {"description": "..."} objects from a file or
stdin and appends each entry to the user's list in order. Import stops at
the first invalid entry; tasks added before it are kept.`,
		Flags:  []cli.Flag{cmd.userFlag(), cmd.reader.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *TasksCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := validate.UserIDField("user", cmd.user); err != nil {
		return err
	}

	tasks, err := cmd.app.Tasks.List(ctx, cmd.user)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	return iojson.WriteLines(c.Root().Writer, tasks)
}

func (cmd *TasksCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if err := validate.UserIDField("user", cmd.user); err != nil {
		return err
	}

	description := strings.Join(c.Args().Slice(), " ")
	t, err := cmd.app.Tasks.Add(ctx, cmd.user, description)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	printer.Ctx(ctx).Successf("Added task: %s", t.Description)
	return nil
}

func (cmd *TasksCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if err := validate.UserIDField("user", cmd.user); err != nil {
		return err
	}

	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task number, got %d arguments", c.Args().Len())
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid task number %q", c.Args().First())
	}
	if err := validate.TaskIndex(n); err != nil {
		return err
	}

	t, err := cmd.app.Tasks.Remove(ctx, cmd.user, n)
	if err != nil {
		return fmt.Errorf("remove task %d: %w", n, err)
	}

	printer.Ctx(ctx).Successf("Removed task: %s", t.Description)
	return nil
}

func (cmd *TasksCmd) runImport(ctx context.Context, c *cli.Command) error {
	if err := validate.UserIDField("user", cmd.user); err != nil {
		return err
	}

	inputs, err := cmd.reader.Read()
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	for i, in := range inputs {
		if _, err := cmd.app.Tasks.Add(ctx, cmd.user, in.Description); err != nil {
			return fmt.Errorf("import entry %d: %w", i+1, err)
		}
	}

	if len(inputs) == 0 {
		p.Infof("Nothing to import")
		return nil
	}
	p.Successf("Imported %d task(s)", len(inputs))
	return nil
}
