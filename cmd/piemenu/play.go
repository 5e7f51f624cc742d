package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/piemenu/cmd/piemenu/internal/config"
	"github.com/recera/piemenu/cmd/piemenu/internal/ui"
)

func newPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play <scene.yaml>",
		Short: "Try the menu in the terminal with the mouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := config.Load(args[0])
			if err != nil {
				return err
			}

			m := ui.NewModel(scene, nil)
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = p.Run()
			return err
		},
	}
}
