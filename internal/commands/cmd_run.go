package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/bot/sweep"
	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/integration/max"
	"github.com/colonyops/pomobot/internal/profiler"
)

type RunCmd struct {
	flags *Flags
	app   *bot.App

	// Command-specific flags
	pprofPort int
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags, app *bot.App) *RunCmd {
	return &RunCmd{flags: flags, app: app}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Connect to MAX and answer commands",
		UsageText: "pomobot run [options]",
		Description: `Connects to the MAX Bot API with the token read from the environment
variable named by transport.token_env (BOT_TOKEN by default) and answers
task and pomodoro commands until interrupted.

A .env file in the working directory is loaded before the environment is read.

Use --pprof-port to serve /healthz, /status and /debug/pprof on a local port.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "pprof-port",
				Usage:       "serve status and pprof endpoints on this port (0 disables)",
				Sources:     cli.EnvVars("POMOBOT_PPROF_PORT"),
				Destination: &cmd.pprofPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	token, err := cmd.flags.Config.Transport.Token()
	if err != nil {
		return fmt.Errorf("read bot token: %w", err)
	}

	transport, err := max.New(token, log.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cmd.pprofPort > 0 {
		srv := profiler.New(cmd.pprofPort, cmd.status)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return serve(ctx, cmd.app, transport)
}

func (cmd *RunCmd) status() any {
	return struct {
		Transport      string `json:"transport"`
		ActiveSessions int    `json:"active_sessions"`
	}{
		Transport:      "max",
		ActiveSessions: cmd.app.Pomodoro.Active(),
	}
}

// serve runs the history sweep alongside the bot until ctx is cancelled or
// the transport stops.
func serve(ctx context.Context, app *bot.App, transport chat.Transport) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	history := app.Config.History
	go sweep.Start(ctx, app.History, app.Pomodoro, history.Retention, history.SweepInterval)

	log.Info().Str("transport", transport.Name()).Msg("pomobot started")
	if err := app.Serve(ctx, transport); err != nil {
		return fmt.Errorf("%s transport: %w", transport.Name(), err)
	}
	log.Info().Msg("pomobot stopped")
	return nil
}
