package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/logger"
)

type cmdExec struct {
	global *cmdGlobal

	flagFormat string
}

// Command generates the command definition.
func (c *cmdExec) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "exec <profile> <sql|-|@saved-query>"
	cmd.Short = "Run one SQL statement"
	cmd.Long = `Description:
  Run one SQL statement with a connection profile

  The statement is given inline, read from standard input with "-", or taken
  from a saved query with "@name". Row sets are printed as a table, other
  statements print the number of rows affected.
`
	cmd.Example = `  alertsnap exec local "SELECT now()"

  alertsnap exec prod @monthly-report --format json`
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", formatTable, "Format (table|json)"+"``")
	cmd.RunE = c.Run

	return cmd
}

// Run runs the actual command logic.
func (c *cmdExec) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	err = validateFormat(c.flagFormat)
	if err != nil {
		return err
	}

	sql, err := c.resolveSQL(cmd, args[1])
	if err != nil {
		return err
	}

	c.global.loadProfiles()

	p, err := c.global.profiles.Find(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()

	sess, err := c.global.service.Connect(ctx, p)
	if err != nil {
		return err
	}

	defer func() {
		err := sess.Close()
		if err != nil {
			logger.Debug("Closing session failed", logger.Ctx{"err": err})
		}
	}()

	result, err := c.global.service.Execute(ctx, sess, sql)
	if err != nil {
		return err
	}

	return renderResult(cmd.OutOrStdout(), c.flagFormat, result)
}

func (c *cmdExec) resolveSQL(cmd *cobra.Command, arg string) (string, error) {
	name, saved := strings.CutPrefix(arg, "@")
	if !saved {
		return readSQL(arg, cmd.InOrStdin())
	}

	c.global.loadQueries()

	q, err := c.global.queries.Find(name)
	if err != nil {
		return "", err
	}

	return q.SQL, nil
}
