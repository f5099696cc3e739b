// ABOUTME: Content source validation for the setup wizard.
// ABOUTME: Loads the posts collection from a directory or URL and counts it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/takubon0202/if-instagram-auto/internal/config"
	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/logging"
)

// ValidateSource loads the content at source and returns the number of posts.
// The context allows cancellation when the user quits during validation.
func ValidateSource(ctx context.Context, source string) (int, error) {
	if !isURL(source) {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return 0, err
		}
		source = expanded
	}
	bundle, err := content.Open(source, logging.Discard()).Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load content: %w", err)
	}
	return len(bundle.Posts), nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
