package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/profile"
)

type cmdProfile struct {
	global *cmdGlobal
}

// Command generates the command definition.
func (c *cmdProfile) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "profile"
	cmd.Short = "Manage connection profiles"
	cmd.Long = `Description:
  Manage connection profiles
`

	// Add
	profileAddCmd := cmdProfileAdd{global: c.global}
	cmd.AddCommand(profileAddCmd.Command())

	// List
	profileListCmd := cmdProfileList{global: c.global}
	cmd.AddCommand(profileListCmd.Command())

	// Remove
	profileRemoveCmd := cmdProfileRemove{global: c.global}
	cmd.AddCommand(profileRemoveCmd.Command())

	// Test
	profileTestCmd := cmdProfileTest{global: c.global}
	cmd.AddCommand(profileTestCmd.Command())

	// Workaround for subcommand usage errors. See: https://github.com/spf13/cobra/issues/706
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Usage() }
	return cmd
}

// Add.
type cmdProfileAdd struct {
	global *cmdGlobal

	flagName     string
	flagType     string
	flagHost     string
	flagPort     int
	flagDatabase string
	flagURL      string
	flagUsername string
	flagPassword string
}

func (c *cmdProfileAdd) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "add"
	cmd.Short = "Add a connection profile"
	cmd.Long = `Description:
  Add a connection profile

  Either give --url directly or let it be built from --host, --port and
  --database (the SID for Oracle).
`
	cmd.Example = `  alertsnap profile add --name local --type postgresql --host localhost --database app --username app --password secret

  alertsnap profile add --name prod --type oracle --url jdbc:oracle:thin:@db:1521:ORCL --username scott`

	cmd.Flags().StringVar(&c.flagName, "name", "", "Profile name"+"``")
	cmd.Flags().StringVar(&c.flagType, "type", "", "Database type (oracle|postgresql)"+"``")
	cmd.Flags().StringVar(&c.flagHost, "host", "localhost", "Database host"+"``")
	cmd.Flags().IntVar(&c.flagPort, "port", 0, "Database port (defaults to the engine's port)"+"``")
	cmd.Flags().StringVar(&c.flagDatabase, "database", "", "Database name, or SID for Oracle"+"``")
	cmd.Flags().StringVar(&c.flagURL, "url", "", "Full connection URL"+"``")
	cmd.Flags().StringVar(&c.flagUsername, "username", "", "User name"+"``")
	cmd.Flags().StringVar(&c.flagPassword, "password", "", "Password"+"``")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdProfileAdd) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	engine, err := profile.ParseEngine(c.flagType)
	if err != nil {
		return err
	}

	url := c.flagURL
	if url == "" {
		if c.flagDatabase == "" {
			return errors.New("either --url or --database is required")
		}

		url, err = profile.BuildURL(engine, c.flagHost, c.flagPort, c.flagDatabase)
		if err != nil {
			return err
		}
	}

	p := profile.Profile{
		Name:     c.flagName,
		Engine:   engine,
		URL:      url,
		Username: c.flagUsername,
		Password: c.flagPassword,
	}

	c.global.loadProfiles()

	err = c.global.profiles.Add(p)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s added\n", p.Name)
	return nil
}

// List.
type cmdProfileList struct {
	global *cmdGlobal
}

func (c *cmdProfileList) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "list"
	cmd.Aliases = []string{"ls"}
	cmd.Short = "List connection profiles"
	cmd.Long = `Description:
  List connection profiles
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdProfileList) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	profiles := c.global.loadProfiles()

	data := [][]string{}
	for _, p := range profiles {
		def := ""
		if p.Name == c.global.cfg.Preferences.DefaultConnection {
			def = "*"
		}
		data = append(data, []string{p.Name, string(p.Engine), p.URL, p.Username, def})
	}

	header := []string{
		"NAME",
		"TYPE",
		"URL",
		"USERNAME",
		"DEFAULT",
	}

	renderTable(cmd.OutOrStdout(), header, data)
	return nil
}

// Remove.
type cmdProfileRemove struct {
	global *cmdGlobal
}

func (c *cmdProfileRemove) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "remove <name>"
	cmd.Aliases = []string{"rm"}
	cmd.Short = "Remove a connection profile"
	cmd.Long = `Description:
  Remove a connection profile
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdProfileRemove) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	c.global.loadProfiles()

	p, err := c.global.profiles.Find(args[0])
	if err != nil {
		return err
	}

	err = c.global.profiles.Remove(p)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed\n", p.Name)
	return nil
}

// Test.
type cmdProfileTest struct {
	global *cmdGlobal
}

func (c *cmdProfileTest) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "test <name>"
	cmd.Short = "Check that a profile can connect"
	cmd.Long = `Description:
  Open a connection with the profile and close it again
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdProfileTest) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	c.global.loadProfiles()

	p, err := c.global.profiles.Find(args[0])
	if err != nil {
		return err
	}

	err = c.global.service.Test(context.Background(), p)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connection to %s OK\n", p.Name)
	return nil
}
