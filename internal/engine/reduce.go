// ABOUTME: Intent dispatch for the presentation engine.
// ABOUTME: Reduce maps (state, intent) to (new state, effects) without side effects.
package engine

import "github.com/takubon0202/if-instagram-auto/internal/models"

// Reduce applies one intent. Unknown intents and intents that are invalid in
// the current state return s unchanged with no effects.
func Reduce(s State, in Intent) (State, []Effect) {
	switch in := in.(type) {
	case ContentLoaded:
		return contentLoaded(s, in)
	case LoadFailed:
		return loadFailed(s, in)
	}

	if s.Status != StatusReady {
		return s, nil
	}

	switch in := in.(type) {
	case SetFilter:
		return setFilter(s, in.Category)
	case LoadMore:
		return loadNextPage(s)
	case PageReady:
		return pageReady(s, in.Generation)
	case ToggleViewMode:
		return toggleViewMode(s), nil
	case OpenPost:
		return openPost(s, in.Index), nil
	case NavigateCarousel:
		return navigateCarousel(s, in.Direction), nil
	case JumpToSlide:
		return jumpToSlide(s, in.Index), nil
	case ClosePost:
		return closePost(s)
	case OpenStories:
		return openStories(s, in.Index)
	case OpenHighlight:
		return openHighlight(s, in.Highlight)
	case NavigateStory:
		return navigateStory(s, in.Direction)
	case StoryTick:
		return storyTick(s, in.Handle)
	case CloseStory:
		return closeStory(s)
	case Scrolled:
		return scrolled(s, in.Offset), nil
	}
	return s, nil
}

// contentLoaded installs a fresh set of collections. Any open overlay is
// discarded and the feed is rebuilt from page zero, keeping the view mode.
func contentLoaded(s State, in ContentLoaded) (State, []Effect) {
	var effects []Effect
	if timer := s.ActiveTimer(); timer != 0 {
		effects = append(effects, CancelTimer{Handle: timer})
	}

	s.Status = StatusReady
	s.Err = ""
	s.Config = in.Config
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	s.Posts = nonNilPosts(in.Posts)
	s.Stories = nonNilStories(in.Stories)
	s.Highlights = nonNilHighlights(in.Highlights)
	s.Categories = Categories(s.Posts)
	s.Overlay = Overlay{Kind: OverlayNone}
	s.Scroll = ScrollState{}
	s.Feed = FeedState{
		ViewMode:   s.Feed.ViewMode,
		Generation: s.Feed.Generation,
	}

	s, more := setFilter(s, AllCategories)
	return s, append(effects, more...)
}

// loadFailed marks the initial load as failed. A failed reload of content
// that is already on screen leaves the session untouched.
func loadFailed(s State, in LoadFailed) (State, []Effect) {
	if s.Status == StatusReady {
		return s, nil
	}
	s.Status = StatusFailed
	s.Err = "content unavailable"
	if in.Err != nil {
		s.Err = in.Err.Error()
	}
	return s, nil
}

func nonNilPosts(v []models.Post) []models.Post {
	if v == nil {
		return []models.Post{}
	}
	return v
}

func nonNilStories(v []models.Story) []models.Story {
	if v == nil {
		return []models.Story{}
	}
	return v
}

func nonNilHighlights(v []models.Highlight) []models.Highlight {
	if v == nil {
		return []models.Highlight{}
	}
	return v
}
