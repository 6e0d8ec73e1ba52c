package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/savedquery"
)

type cmdQuery struct {
	global *cmdGlobal
}

// Command generates the command definition.
func (c *cmdQuery) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "query"
	cmd.Short = "Manage saved queries"
	cmd.Long = `Description:
  Manage saved queries
`

	// List
	queryListCmd := cmdQueryList{global: c.global}
	cmd.AddCommand(queryListCmd.Command())

	// Save
	querySaveCmd := cmdQuerySave{global: c.global}
	cmd.AddCommand(querySaveCmd.Command())

	// Show
	queryShowCmd := cmdQueryShow{global: c.global}
	cmd.AddCommand(queryShowCmd.Command())

	// Remove
	queryRemoveCmd := cmdQueryRemove{global: c.global}
	cmd.AddCommand(queryRemoveCmd.Command())

	// Workaround for subcommand usage errors. See: https://github.com/spf13/cobra/issues/706
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Usage() }
	return cmd
}

// readSQL returns arg, or stdin when arg is "-".
func readSQL(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}

// List.
type cmdQueryList struct {
	global *cmdGlobal
}

func (c *cmdQueryList) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "list"
	cmd.Aliases = []string{"ls"}
	cmd.Short = "List saved queries"
	cmd.Long = `Description:
  List saved queries
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdQueryList) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	data := [][]string{}
	for _, q := range c.global.loadQueries() {
		created := ""
		if !q.CreatedAt.IsZero() {
			created = q.CreatedAt.Format("2006/01/02 15:04")
		}
		data = append(data, []string{q.Name, firstLine(q.SQL, 60), created})
	}

	renderTable(cmd.OutOrStdout(), []string{"NAME", "SQL", "CREATED"}, data)
	return nil
}

func firstLine(s string, limit int) string {
	line, _, more := strings.Cut(strings.TrimSpace(s), "\n")
	runes := []rune(line)
	if len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	if more {
		return line + " ..."
	}
	return line
}

// Save.
type cmdQuerySave struct {
	global *cmdGlobal
}

func (c *cmdQuerySave) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "save <name> <sql|->"
	cmd.Short = "Save a query"
	cmd.Long = `Description:
  Save a query under a name

  Use "-" to read the SQL from standard input.
`
	cmd.Example = `  alertsnap query save active-users "SELECT * FROM users WHERE active"

  alertsnap query save monthly-report - < report.sql`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdQuerySave) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	sql, err := readSQL(args[1], cmd.InOrStdin())
	if err != nil {
		return err
	}

	c.global.loadQueries()

	q := savedquery.New(args[0], sql)
	err = c.global.queries.Add(q)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Query %s saved\n", q.Name)
	return nil
}

// Show.
type cmdQueryShow struct {
	global *cmdGlobal
}

func (c *cmdQueryShow) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "show <name>"
	cmd.Short = "Print the SQL of a saved query"
	cmd.Long = `Description:
  Print the SQL of a saved query
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdQueryShow) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	c.global.loadQueries()

	q, err := c.global.queries.Find(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), q.SQL)
	return nil
}

// Remove.
type cmdQueryRemove struct {
	global *cmdGlobal
}

func (c *cmdQueryRemove) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "remove <name>"
	cmd.Aliases = []string{"rm"}
	cmd.Short = "Remove a saved query"
	cmd.Long = `Description:
  Remove the most recent saved query with this name
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdQueryRemove) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	c.global.loadQueries()

	q, err := c.global.queries.Find(args[0])
	if err != nil {
		return err
	}

	err = c.global.queries.Remove(q)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Query %s removed\n", q.Name)
	return nil
}
