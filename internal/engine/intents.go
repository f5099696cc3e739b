// ABOUTME: Named intents consumed by the engine reducer.
// ABOUTME: Hosts translate key presses, scroll checks, timers, and loads into these.
package engine

import "github.com/takubon0202/if-instagram-auto/internal/models"

// Intent is a named request for a state transition.
type Intent interface {
	Name() string
}

// SetFilter resets the feed to the posts matching Category.
type SetFilter struct{ Category string }

// LoadMore requests the next page of the filtered feed.
type LoadMore struct{}

// PageReady delivers a page scheduled by LoadMore.
type PageReady struct{ Generation uint64 }

// ToggleViewMode flips between grid and feed layouts.
type ToggleViewMode struct{}

// OpenPost opens the detail overlay for a displayed post.
type OpenPost struct{ Index int }

// NavigateCarousel moves the open post by one slide (-1 or +1).
type NavigateCarousel struct{ Direction int }

// JumpToSlide selects a slide of the open post directly.
type JumpToSlide struct{ Index int }

// ClosePost closes the detail overlay.
type ClosePost struct{}

// OpenStories opens the story viewer over every story at Index.
type OpenStories struct{ Index int }

// OpenHighlight opens the story viewer over the stories of one highlight.
type OpenHighlight struct{ Highlight string }

// NavigateStory moves the story viewer by one story (-1 or +1).
type NavigateStory struct{ Direction int }

// StoryTick is one 50ms beat of the story timer identified by Handle.
type StoryTick struct{ Handle TimerHandle }

// CloseStory closes the story viewer.
type CloseStory struct{}

// Scrolled reports the host's current viewport offset.
type Scrolled struct{ Offset int }

// ContentLoaded delivers the content repository's collections.
type ContentLoaded struct {
	Config     map[string]any
	Posts      []models.Post
	Stories    []models.Story
	Highlights []models.Highlight
}

// LoadFailed reports that the mandatory posts collection could not be loaded.
type LoadFailed struct{ Err error }

func (SetFilter) Name() string        { return "SET_FILTER" }
func (LoadMore) Name() string         { return "LOAD_MORE" }
func (PageReady) Name() string        { return "PAGE_READY" }
func (ToggleViewMode) Name() string   { return "TOGGLE_VIEW" }
func (OpenPost) Name() string         { return "OPEN_POST" }
func (NavigateCarousel) Name() string { return "NAVIGATE_CAROUSEL" }
func (JumpToSlide) Name() string      { return "JUMP_TO_SLIDE" }
func (ClosePost) Name() string        { return "CLOSE_POST" }
func (OpenStories) Name() string      { return "OPEN_STORIES" }
func (OpenHighlight) Name() string    { return "OPEN_HIGHLIGHT" }
func (NavigateStory) Name() string    { return "NAVIGATE_STORY" }
func (StoryTick) Name() string        { return "STORY_TICK" }
func (CloseStory) Name() string       { return "CLOSE_STORY" }
func (Scrolled) Name() string         { return "SCROLLED" }
func (ContentLoaded) Name() string    { return "CONTENT_LOADED" }
func (LoadFailed) Name() string       { return "LOAD_FAILED" }
