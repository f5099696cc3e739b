// ABOUTME: Default command: the interactive post browser.
// ABOUTME: Runs the bubbletea program and, when enabled, reloads on content changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/diag"
	"github.com/takubon0202/if-instagram-auto/internal/tui"
)

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := globalLogger.Logger
	repo, source, err := openRepository()
	if err != nil {
		return err
	}

	model, err := tui.NewBrowseModel(tui.BrowseOptions{
		Repo:     repo,
		ViewMode: viewMode(),
		Account:  globalConfig.Display.Account,
		Logger:   logger,
		Diag:     diag.NewRing(0),
	})
	if err != nil {
		return fmt.Errorf("failed to start story timers: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.Attach(p.Send)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if globalConfig.Content.Watch && !globalConfig.IsRemote() {
		watcher, err := content.NewWatcher(source, logger)
		if err != nil {
			logger.Warn("content watch disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Run(ctx, func() { p.Send(tui.ReloadMsg{}) }); err != nil {
					logger.Warn("content watcher stopped", "error", err)
				}
			}()
		}
	}

	logger.Info("browser started", "source", source, "view_mode", viewMode())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
