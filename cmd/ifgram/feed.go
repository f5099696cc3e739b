// ABOUTME: Non-interactive feed command printing pages of posts.
// ABOUTME: Drives a headless session so filtering and pagination match the browser.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/models"
	"github.com/takubon0202/if-instagram-auto/internal/session"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print posts from the stream",
	Long:  "Load content, apply an optional category filter, and print one or more pages of posts.",
	RunE:  runFeed,
}

// Flags
var (
	feedCategory string
	feedPages    int
	feedJSON     bool
)

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().StringVar(&feedCategory, "category", engine.AllCategories, "Only show posts with this highlight, track, or category")
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages of 12 posts to load")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "Print the displayed posts as JSON")
}

func runFeed(cmd *cobra.Command, args []string) error {
	repo, _, err := openRepository()
	if err != nil {
		return err
	}

	rt, err := session.NewRuntime(session.Options{ViewMode: viewMode(), Logger: globalLogger.Logger})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer rt.Close()

	ctx := cmd.Context()

	snap, err := rt.Load(ctx, repo)
	if err != nil {
		return err
	}
	if feedCategory != engine.AllCategories {
		if snap, err = rt.Dispatch(ctx, engine.SetFilter{Category: feedCategory}); err != nil {
			return err
		}
	}
	for page := 1; page < feedPages && !snap.EndOfData; page++ {
		if snap, err = rt.Dispatch(ctx, engine.LoadMore{}); err != nil {
			return err
		}
	}

	if feedJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Displayed)
	}

	if len(snap.Displayed) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	now := time.Now()
	for _, post := range snap.Displayed {
		printPost(post, now)
	}
	fmt.Printf("Showing %d of %d posts (%s)", len(snap.Displayed), snap.FilteredCount, snap.Category)
	if snap.EndOfData {
		fmt.Print(", end of feed")
	}
	fmt.Println()
	return nil
}

func printPost(post models.Post, now time.Time) {
	when := post.Datetime
	if t, ok := models.ParseTimestamp(post.Datetime); ok {
		when = humanize.RelTime(t, now, "ago", "from now")
	}
	fmt.Printf("--- %s [%s] %s", post.ID, when, post.Type)
	if labels := post.Labels(); len(labels) > 0 {
		fmt.Printf(" (%s)", strings.Join(labels, ", "))
	}
	if n := len(post.Media); n > 1 {
		fmt.Printf(" %d slides", n)
	}
	fmt.Printf("\n%s\n", post.Title)
	if len(post.Hashtags) > 0 {
		fmt.Printf("#%s\n", strings.Join(post.Hashtags, " #"))
	}
	fmt.Println()
}
