// ABOUTME: MCP server command implementation for ifgram.
// ABOUTME: Starts the MCP server in stdio mode over a headless browsing session.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/diag"
	mcppkg "github.com/takubon0202/if-instagram-auto/internal/mcp"
	"github.com/takubon0202/if-instagram-auto/internal/session"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio. Agents browse the same session
the TUI would: filter, paginate, open posts and stories, and read state.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := globalLogger.Logger
	repo, source, err := openRepository()
	if err != nil {
		return err
	}

	rt, err := session.NewRuntime(session.Options{ViewMode: viewMode(), Logger: logger, Diag: diag.NewRing(0)})
	if err != nil {
		return err
	}
	defer rt.Close()

	// A failed initial load leaves the session in the failed state; agents can
	// call reload once the source is fixed.
	if _, err := rt.Load(ctx, repo); err != nil {
		logger.Warn("initial content load failed", "source", source, "error", err)
	}

	if globalConfig.Content.Watch && !globalConfig.IsRemote() {
		watcher, err := content.NewWatcher(source, logger)
		if err != nil {
			logger.Warn("content watch disabled", "error", err)
		} else {
			go func() {
				_ = watcher.Run(ctx, func() {
					if _, err := rt.Load(ctx, repo); err != nil {
						logger.Warn("reload failed", "error", err)
					}
				})
			}()
		}
	}

	server, err := mcppkg.NewServer(rt, repo, mcppkg.WithLogger(logger))
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
