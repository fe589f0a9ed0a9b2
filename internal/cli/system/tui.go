package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitctl/internal/cli"
	"github.com/julianstephens/habitctl/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	model := tui.NewModel(tui.Deps{
		Config:  ctx.Config,
		Session: ctx.Session,
		API:     ctx.API,
		Records: ctx.Records,
		Cache:   ctx.Cache,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI crashed: %w", err)
	}
	return nil
}
