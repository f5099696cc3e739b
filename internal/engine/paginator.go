// ABOUTME: Feed paginator: category filtering and page-at-a-time loading.
// ABOUTME: Guards against overlapping loads and drops pages from stale filters.
package engine

import "github.com/takubon0202/if-instagram-auto/internal/models"

// FilterPosts returns the posts matching category in any label field, or a
// copy of all posts for AllCategories.
func FilterPosts(posts []models.Post, category string) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category == AllCategories || p.HasLabel(category) {
			out = append(out, p)
		}
	}
	return out
}

// NearBottom reports whether a viewport at offset, with the given height,
// is within ScrollThreshold of the end of content.
func NearBottom(offset, viewportHeight, contentHeight int) bool {
	return contentHeight-(offset+viewportHeight) < ScrollThreshold
}

func setFilter(s State, category string) (State, []Effect) {
	if category == "" {
		category = AllCategories
	}
	s.Feed.Category = category
	s.Feed.Page = 0
	s.Feed.Displayed = nil
	s.Feed.Filtered = FilterPosts(s.Posts, category)
	s.Feed.EndOfData = len(s.Feed.Filtered) == 0
	s.Feed.Loading = false
	s.Feed.Generation++
	return loadNextPage(s)
}

// loadNextPage marks a page as in flight. The page itself is appended when
// the host delivers PageReady.
func loadNextPage(s State) (State, []Effect) {
	if s.Feed.Loading || s.Feed.EndOfData {
		return s, nil
	}
	s.Feed.Loading = true
	return s, []Effect{SchedulePage{Generation: s.Feed.Generation}}
}

func pageReady(s State, generation uint64) (State, []Effect) {
	if !s.Feed.Loading || generation != s.Feed.Generation {
		return s, nil
	}

	filtered := s.Feed.Filtered
	start := s.Feed.Page * PageSize
	end := min(start+PageSize, len(filtered))
	if start < end {
		displayed := make([]models.Post, 0, end)
		displayed = append(displayed, s.Feed.Displayed...)
		displayed = append(displayed, filtered[start:end]...)
		s.Feed.Displayed = displayed
		s.Feed.Page++
	}

	s.Feed.EndOfData = s.Feed.Page*PageSize >= len(filtered)
	s.Feed.Loading = false
	return s, nil
}
