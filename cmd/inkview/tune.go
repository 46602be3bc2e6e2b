package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/recera/inkview/cmd/inkview/internal/config"
	"github.com/recera/inkview/cmd/inkview/internal/ui"
	"github.com/spf13/cobra"
)

func newTuneCommand() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Interactively tune the viewport constants",
		Long: `Opens a terminal UI for editing the interaction constants in inkview.yml:
zoom epsilons, the nudge escape threshold and window, scale bounds, and
page geometry. Saved values take effect on the next dev-server reload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if cwd != "" {
				dir = cwd
			}
			return runTune(dir)
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")

	return cmd
}

func runTune(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", config.FileName, err)
	}

	model := ui.NewTuneModel(cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("tune UI failed: %w", err)
	}

	m, ok := final.(ui.TuneModel)
	if !ok || !m.Saved() {
		log.Println("Tuning discarded, no changes written.")
		return nil
	}

	if err := m.Config().Save(dir); err != nil {
		return fmt.Errorf("failed to save %s: %w", config.FileName, err)
	}
	log.Printf("✅ Saved %s\n", config.FileName)
	return nil
}
