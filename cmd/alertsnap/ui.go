package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/tui"
	"github.com/joacominatel/alertsnap/internal/tui/theme"
)

type cmdUI struct {
	global *cmdGlobal
}

// Command generates the command definition.
func (c *cmdUI) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "ui"
	cmd.Short = "Start the terminal UI"
	cmd.Long = `Description:
  Start the terminal UI

  Pick a saved connection, edit and run SQL, and keep queries for later.
`
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.Run

	return cmd
}

// Run runs the actual command logic.
func (c *cmdUI) Run(cmd *cobra.Command, args []string) error {
	theme.Apply(c.global.cfg.Preferences.Theme)

	model := tui.NewModel(c.global.service, c.global.cfg, c.global.profiles, c.global.queries)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("Terminal UI failed", logger.Ctx{"err": err})
		return fmt.Errorf("run terminal UI: %w", err)
	}

	// Graceful cleanup
	if m, ok := finalModel.(tui.Model); ok && m.Session() != nil {
		err = m.Session().Close()
		if err != nil {
			logger.Debug("Closing session failed", logger.Ctx{"err": err})
		}
	}

	return nil
}
