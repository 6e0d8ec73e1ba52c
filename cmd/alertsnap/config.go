package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/config"
	"github.com/joacominatel/alertsnap/internal/logger"
)

type cmdConfig struct {
	global *cmdGlobal
}

// Command generates the command definition.
func (c *cmdConfig) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "config"
	cmd.Short = "Manage preferences"
	cmd.Long = `Description:
  Manage preferences stored in config.yaml
`

	// Show
	configShowCmd := cmdConfigShow{global: c.global}
	cmd.AddCommand(configShowCmd.Command())

	// Get
	configGetCmd := cmdConfigGet{global: c.global}
	cmd.AddCommand(configGetCmd.Command())

	// Set
	configSetCmd := cmdConfigSet{global: c.global}
	cmd.AddCommand(configSetCmd.Command())

	// Workaround for subcommand usage errors. See: https://github.com/spf13/cobra/issues/706
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Usage() }
	return cmd
}

// Show.
type cmdConfigShow struct {
	global *cmdGlobal
}

func (c *cmdConfigShow) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "show"
	cmd.Short = "Show all preferences"
	cmd.Long = `Description:
  Show all preferences and where the data files are kept
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdConfigShow) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	data := [][]string{}
	for _, key := range config.Keys {
		value, err := c.global.cfg.Get(key)
		if err != nil {
			return err
		}
		data = append(data, []string{key, value})
	}

	data = append(data,
		[]string{"connections", c.global.profiles.Path()},
		[]string{"queries", c.global.queries.Path()},
		[]string{"logs", c.global.cfg.LogDir()},
	)

	renderTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, data)
	return nil
}

// Get.
type cmdConfigGet struct {
	global *cmdGlobal
}

func (c *cmdConfigGet) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "get <key>"
	cmd.Short = "Print one preference"
	cmd.Long = `Description:
  Print one preference
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdConfigGet) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	value, err := c.global.cfg.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

// Set.
type cmdConfigSet struct {
	global *cmdGlobal
}

func (c *cmdConfigSet) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "set <key> <value>"
	cmd.Short = "Change one preference"
	cmd.Long = `Description:
  Change one preference and write config.yaml
`
	cmd.Example = `  alertsnap config set preferences.theme light

  alertsnap config set preferences.default_connection prod`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdConfigSet) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	err = c.global.cfg.Set(args[0], args[1])
	if err != nil {
		return err
	}

	err = config.Save(c.global.cfg)
	if err != nil {
		return err
	}

	logger.Debug("Preference changed", logger.Ctx{"key": args[0], "value": args[1]})
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", args[0], args[1])
	return nil
}
