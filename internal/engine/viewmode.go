// ABOUTME: View mode controller for the feed layout.
// ABOUTME: Toggling re-projects displayed posts without touching pagination.
package engine

func toggleViewMode(s State) State {
	if s.Feed.ViewMode == ViewFeed {
		s.Feed.ViewMode = ViewGrid
	} else {
		s.Feed.ViewMode = ViewFeed
	}
	return s
}
