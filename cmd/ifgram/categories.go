// ABOUTME: Categories command listing filter labels and story highlights.
// ABOUTME: Counts matching posts and stories for each label.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and highlights",
	Long:  "Load content and list every category label with its post count, followed by the story highlights.",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	repo, _, err := openRepository()
	if err != nil {
		return err
	}
	bundle, err := repo.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	fmt.Printf("%-24s %d posts\n", engine.AllCategories, len(bundle.Posts))
	for _, c := range engine.Categories(bundle.Posts) {
		fmt.Printf("%-24s %d posts\n", c, len(engine.FilterPosts(bundle.Posts, c)))
	}

	if len(bundle.Highlights) > 0 {
		fmt.Println()
		for _, h := range bundle.Highlights {
			n := len(engine.StoriesForHighlight(bundle.Stories, h.Name))
			fmt.Printf("%s %-22s %d stories\n", h.Icon, h.Name, n)
		}
	}
	return nil
}
