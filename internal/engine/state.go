// ABOUTME: Session state owned by the presentation engine.
// ABOUTME: Feed, overlay, and scroll slices plus the engine's design constants.
package engine

import (
	"time"

	"github.com/takubon0202/if-instagram-auto/internal/models"
)

const (
	// PageSize is the number of posts appended per page load.
	PageSize = 12

	// ScrollThreshold is the distance from the bottom of the content, in
	// viewport units, at which hosts request the next page.
	ScrollThreshold = 200

	// StoryTickInterval is the cadence of the story progress timer.
	StoryTickInterval = 50 * time.Millisecond

	// AllCategories is the filter sentinel that matches every post.
	AllCategories = "all"
)

// ViewMode selects the feed layout.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewFeed ViewMode = "feed"
)

// ParseViewMode returns the view mode named by s, defaulting to grid.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewFeed {
		return ViewFeed
	}
	return ViewGrid
}

// LoadStatus tracks the initial content load.
type LoadStatus string

const (
	StatusLoading LoadStatus = "loading"
	StatusReady   LoadStatus = "ready"
	StatusFailed  LoadStatus = "failed"
)

// OverlayKind names the overlay currently open, if any.
type OverlayKind string

const (
	OverlayNone  OverlayKind = "none"
	OverlayPost  OverlayKind = "post"
	OverlayStory OverlayKind = "story"
)

// TimerHandle identifies one story timer. Zero means no timer.
type TimerHandle uint64

// FeedState is the paginated, filtered post stream.
type FeedState struct {
	Category  string
	ViewMode  ViewMode
	Filtered  []models.Post
	Displayed []models.Post
	Page      int // next page index to load
	Loading   bool
	EndOfData bool

	// Generation changes on every filter reset so that a page scheduled for a
	// previous filter is never appended to the new one.
	Generation uint64
}

// PostOverlay is the open post detail view.
type PostOverlay struct {
	Post  models.Post
	Index int // position in the displayed list
	Slide int
}

// StoryOverlay is the open story viewer.
type StoryOverlay struct {
	Stories   []models.Story
	Highlight string // non-empty when the list was derived from a highlight
	Index     int
	Progress  float64
	Timer     TimerHandle
}

// Current returns the story being shown.
func (o StoryOverlay) Current() models.Story {
	return o.Stories[o.Index]
}

// Overlay holds at most one open overlay. Payload pointers are replaced, never
// mutated, so copies of State stay independent.
type Overlay struct {
	Kind  OverlayKind
	Post  *PostOverlay
	Story *StoryOverlay
}

// ScrollState records the host viewport offset and the anchor captured when
// the post overlay opened.
type ScrollState struct {
	Offset   int
	Anchor   int
	Captured bool
}

// State is the whole engine state for one session.
type State struct {
	Status LoadStatus
	Err    string

	Config     map[string]any
	Posts      []models.Post
	Stories    []models.Story
	Highlights []models.Highlight
	Categories []string

	Feed    FeedState
	Overlay Overlay
	Scroll  ScrollState

	lastTimer TimerHandle
}

// New returns the pre-load state using the given initial view mode.
func New(mode ViewMode) State {
	if mode != ViewFeed {
		mode = ViewGrid
	}
	return State{
		Status:  StatusLoading,
		Feed:    FeedState{Category: AllCategories, ViewMode: mode},
		Overlay: Overlay{Kind: OverlayNone},
	}
}

// ActiveTimer returns the handle of the running story timer, or zero.
func (s State) ActiveTimer() TimerHandle {
	if s.Overlay.Kind == OverlayStory && s.Overlay.Story != nil {
		return s.Overlay.Story.Timer
	}
	return 0
}
