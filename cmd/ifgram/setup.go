// ABOUTME: Cobra command for interactive content source setup.
// ABOUTME: Launches a bubbletea TUI wizard to pick and validate the content source.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/config"
	"github.com/takubon0202/if-instagram-auto/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Point ifgram at its content",
	Long:  "Interactive wizard to configure the content source and account handle.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Only the file is edited here; environment overrides must not be saved.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(cfg.Content.Source, cfg.Display.Account)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	cfg.Content.Source, cfg.Display.Account = final.Result()

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
