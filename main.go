package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/commands"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/data/db"
	"github.com/colonyops/pomobot/internal/data/stores"
	"github.com/colonyops/pomobot/internal/printer"
	"github.com/colonyops/pomobot/pkg/logutils"
	"github.com/colonyops/pomobot/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

const busBufferSize = 256

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the database, moving a corrupt file aside and starting
// fresh when SQLite reports corruption.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	log.Warn().Err(err).Msg("database is corrupt, moving it aside")
	if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
		return nil, errors.Join(err, rerr)
	}
	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		botApp    = &bot.App{}
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "pomobot",
		Usage:     "Chat bot with per-user task lists and a pomodoro timer",
		UsageText: "pomobot [global options] command [command options]",
		Description: `Pomobot answers chat commands on MAX: keep a personal task list, run
pomodoro work and break phases, and see your pomodoro history.

Run 'pomobot run' to connect to MAX with the token in BOT_TOKEN.
Run 'pomobot console' to try the bot from your terminal.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("POMOBOT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (logs go to stderr when empty)",
				Sources:     cli.EnvVars("POMOBOT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("POMOBOT_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("POMOBOT_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// A missing .env file is fine; the environment may already be set.
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return ctx, fmt.Errorf("load .env: %w", err)
			}

			flags.LogWriter = utils.NewDeferredWriter(os.Stderr)
			logger, closer, err := logutils.NewWithConsole(flags.LogLevel, flags.LogFile, flags.LogWriter)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err := openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			flags.Database = database

			bus := eventbus.New(busBufferSize)
			eventbus.RegisterDebugLogger(bus, log.Logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*botApp = *bot.NewApp(
				cfg,
				stores.NewTaskStore(database),
				stores.NewHistoryStore(database),
				bus,
				log.Logger,
			)

			return printer.NewContext(ctx, printer.New(c.Root().Writer)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			if flags.Database != nil {
				if err := flags.Database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewRunCmd(flags, botApp).Register(app)
	app = commands.NewConsoleCmd(flags, botApp).Register(app)
	app = commands.NewTasksCmd(flags, botApp).Register(app)
	app = commands.NewStatsCmd(flags, botApp).Register(app)
	app = commands.NewPruneCmd(flags, botApp).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
