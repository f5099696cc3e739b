// ABOUTME: Read-only rendering-surface view of engine state.
// ABOUTME: Derives carousel and story view facts together from one state value.
package engine

import "github.com/takubon0202/if-instagram-auto/internal/models"

// Snapshot is everything a host needs to render. Hosts never mutate it.
type Snapshot struct {
	Status        LoadStatus         `json:"status"`
	Error         string             `json:"error,omitempty"`
	Category      string             `json:"category"`
	Categories    []string           `json:"categories"`
	ViewMode      ViewMode           `json:"view_mode"`
	Displayed     []models.Post      `json:"displayed"`
	FilteredCount int                `json:"filtered_count"`
	TotalCount    int                `json:"total_count"`
	Page          int                `json:"page"`
	Loading       bool               `json:"loading"`
	EndOfData     bool               `json:"end_of_data"`
	Stories       []models.Story     `json:"stories"`
	Highlights    []models.Highlight `json:"highlights"`
	Overlay       OverlayKind        `json:"overlay"`
	Post          *CarouselView      `json:"post,omitempty"`
	Story         *StoryView         `json:"story,omitempty"`
	ScrollOffset  int                `json:"scroll_offset"`
}

// CarouselView is the derived state of the open post detail overlay.
type CarouselView struct {
	Post          models.Post  `json:"post"`
	Index         int          `json:"index"`
	Slide         int          `json:"slide"`
	Count         int          `json:"count"`
	Current       models.Media `json:"current"`
	PrevEnabled   bool         `json:"prev_enabled"`
	NextEnabled   bool         `json:"next_enabled"`
	OffsetPercent int          `json:"offset_percent"`
	ActiveDot     int          `json:"active_dot"`
}

// StoryView is the derived state of the open story viewer.
type StoryView struct {
	Story     models.Story `json:"story"`
	Index     int          `json:"index"`
	Count     int          `json:"count"`
	Highlight string       `json:"highlight,omitempty"`
	Progress  float64      `json:"progress"`
	Bars      []float64    `json:"bars"`
	Timer     TimerHandle  `json:"timer"`
}

// Snapshot projects s for rendering.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Status:        s.Status,
		Error:         s.Err,
		Category:      s.Feed.Category,
		Categories:    s.Categories,
		ViewMode:      s.Feed.ViewMode,
		Displayed:     s.Feed.Displayed,
		FilteredCount: len(s.Feed.Filtered),
		TotalCount:    len(s.Posts),
		Page:          s.Feed.Page,
		Loading:       s.Feed.Loading,
		EndOfData:     s.Feed.EndOfData,
		Stories:       s.Stories,
		Highlights:    s.Highlights,
		Overlay:       s.Overlay.Kind,
		ScrollOffset:  s.Scroll.Offset,
	}
	if snap.Overlay == "" {
		snap.Overlay = OverlayNone
	}
	switch s.Overlay.Kind {
	case OverlayPost:
		snap.Post = carouselView(*s.Overlay.Post)
	case OverlayStory:
		snap.Story = storyView(*s.Overlay.Story)
	}
	return snap
}

func carouselView(p PostOverlay) *CarouselView {
	count := len(p.Post.Media)
	return &CarouselView{
		Post:          p.Post,
		Index:         p.Index,
		Slide:         p.Slide,
		Count:         count,
		Current:       p.Post.Media[p.Slide],
		PrevEnabled:   p.Slide > 0,
		NextEnabled:   p.Slide < count-1,
		OffsetPercent: p.Slide * 100,
		ActiveDot:     p.Slide,
	}
}

func storyView(o StoryOverlay) *StoryView {
	bars := make([]float64, len(o.Stories))
	for i := range bars {
		switch {
		case i < o.Index:
			bars[i] = 100
		case i == o.Index:
			bars[i] = min(o.Progress, 100)
		}
	}
	return &StoryView{
		Story:     o.Current(),
		Index:     o.Index,
		Count:     len(o.Stories),
		Highlight: o.Highlight,
		Progress:  o.Progress,
		Bars:      bars,
		Timer:     o.Timer,
	}
}
