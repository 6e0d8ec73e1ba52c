package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/app"
	"github.com/joacominatel/alertsnap/internal/config"
	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/database/oracle"
	"github.com/joacominatel/alertsnap/internal/database/postgres"
	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/profile"
	"github.com/joacominatel/alertsnap/internal/savedquery"
)

type cmdGlobal struct {
	flagConfigDir string
	flagDebug     bool

	// Set up by PersistentPreRunE.
	cfg      *config.Config
	profiles *profile.Store
	queries  *savedquery.Store
	service  *app.Service
	tui      bool
}

func newRootCommand() *cobra.Command {
	globalCmd := cmdGlobal{}

	root := &cobra.Command{}
	root.Use = "alertsnap"
	root.Short = "Saved connections and saved queries for Oracle and PostgreSQL"
	root.Long = `Description:
  Keep named database connection profiles and named SQL queries, and run
  them from a terminal UI or straight from the command line.

  Without a sub-command the terminal UI is started.
`
	root.SilenceUsage = true
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	// Global flags.
	root.PersistentFlags().StringVar(&globalCmd.flagConfigDir, "config-dir", "", "Configuration directory (defaults to $"+config.EnvConfigDir+" or the user config dir)"+"``")
	root.PersistentFlags().BoolVar(&globalCmd.flagDebug, "debug", false, "Show all debug messages")
	root.PersistentPreRunE = globalCmd.PreRun

	// ui, also the default action.
	uiCmd := cmdUI{global: &globalCmd}
	root.AddCommand(uiCmd.Command())
	root.Args = cobra.NoArgs
	root.RunE = uiCmd.Run

	// profile sub-command.
	profileCmd := cmdProfile{global: &globalCmd}
	root.AddCommand(profileCmd.Command())

	// query sub-command.
	queryCmd := cmdQuery{global: &globalCmd}
	root.AddCommand(queryCmd.Command())

	// config sub-command.
	configCmd := cmdConfig{global: &globalCmd}
	root.AddCommand(configCmd.Command())

	// exec sub-command.
	execCmd := cmdExec{global: &globalCmd}
	root.AddCommand(execCmd.Command())

	return root
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// PreRun loads the configuration, sets up logging and opens the stores.
func (c *cmdGlobal) PreRun(cmd *cobra.Command, args []string) error {
	dir := c.flagConfigDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return &app.ErrConfig{Cause: err}
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return &app.ErrConfig{Cause: err}
	}

	level := cfg.Logging.Level
	if c.flagDebug {
		level = "debug"
	}

	// The terminal UI owns the screen, so it only logs to files.
	c.tui = cmd.Name() == "ui" || cmd == cmd.Root()

	err = logger.InitLogger(logger.Options{
		Dir:           cfg.LogDir(),
		RetentionDays: cfg.Logging.RetentionDays,
		Level:         level,
		Console:       !c.tui,
	})
	if err != nil {
		return &app.ErrConfig{Cause: fmt.Errorf("logging: %w", err)}
	}

	c.cfg = cfg
	c.profiles = profile.NewStore(cfg.ConnectionsPath(), profile.WithSecrets(cfg.Secrets()))
	c.queries = savedquery.NewStore(cfg.QueriesPath())
	c.service = app.NewService(
		map[profile.Engine]database.Driver{
			profile.EngineOracle:   oracle.New(),
			profile.EnginePostgres: postgres.New(),
		},
		app.WithConnectTimeout(cfg.Preferences.ConnectTimeout),
	)

	logger.Debug("Configuration loaded", logger.Ctx{"dir": dir, "theme": cfg.Preferences.Theme, "secrets": cfg.Preferences.SecretStore})

	return nil
}

// CheckArgs validates the number of arguments passed to the function and shows the help if incorrect.
func (c *cmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, fmt.Errorf("Invalid number of arguments")
	}

	return false, nil
}

// loadProfiles reads the profile store; a malformed file is reported as a
// warning and leaves an empty list.
func (c *cmdGlobal) loadProfiles() []profile.Profile {
	list, err := c.profiles.Load()
	if err != nil {
		logger.Warn("Could not read connection profiles", logger.Ctx{"path": c.profiles.Path(), "err": err})
	}
	return list
}

func (c *cmdGlobal) loadQueries() []savedquery.Query {
	list, err := c.queries.Load()
	if err != nil {
		logger.Warn("Could not read saved queries", logger.Ctx{"path": c.queries.Path(), "err": err})
	}
	return list
}
