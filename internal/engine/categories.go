// ABOUTME: Category index derived from loaded posts.
// ABOUTME: Collects highlight, track, and category labels into a sorted set.
package engine

import (
	"sort"

	"github.com/takubon0202/if-instagram-auto/internal/models"
)

// Categories returns the sorted, de-duplicated labels found in the highlight,
// track, and category fields of posts.
func Categories(posts []models.Post) []string {
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, label := range p.Labels() {
			seen[label] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
