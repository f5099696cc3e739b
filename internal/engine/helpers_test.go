// ABOUTME: Shared fixtures for engine tests.
// ABOUTME: Builds posts and stories and drives the reducer like a host would.
package engine

import (
	"fmt"
	"testing"

	"github.com/takubon0202/if-instagram-auto/internal/models"
)

// makePosts builds n posts; label(i) sets the highlight of post i.
func makePosts(n int, label func(i int) string) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:       fmt.Sprintf("post-%03d", i),
			Datetime: "2025-01-15T10:00:00+09:00",
			Type:     models.PostImage,
			Track:    "juku",
			Title:    fmt.Sprintf("Post %d", i),
			Caption:  "caption",
			Media:    []models.Media{{Src: fmt.Sprintf("img/%d.png", i), Alt: "alt"}},
		}
		if label != nil {
			posts[i].Highlight = label(i)
		}
	}
	return posts
}

func makeStories(durations ...float64) []models.Story {
	stories := make([]models.Story, len(durations))
	for i, d := range durations {
		stories[i] = models.Story{
			ID:       fmt.Sprintf("story-%d", i),
			Datetime: "2025-01-15T10:00:00+09:00",
			Type:     "image",
			Src:      fmt.Sprintf("stories/%d.png", i),
			Duration: d,
		}
	}
	return stories
}

// settle delivers every scheduled page, as a host does on its next tick.
func settle(s State, effects []Effect) State {
	for _, eff := range effects {
		if sp, ok := eff.(SchedulePage); ok {
			s, _ = Reduce(s, PageReady{Generation: sp.Generation})
		}
	}
	return s
}

// run applies intents in order, settling page loads after each one.
func run(s State, intents ...Intent) State {
	for _, in := range intents {
		var effects []Effect
		s, effects = Reduce(s, in)
		s = settle(s, effects)
	}
	return s
}

// loaded returns a ready state with the given content and the first page
// already delivered.
func loaded(posts []models.Post, stories []models.Story) State {
	return run(New(ViewGrid), ContentLoaded{Posts: posts, Stories: stories})
}

// timerLedger tracks live timers from StartTimer/CancelTimer effects.
type timerLedger map[TimerHandle]bool

func (l timerLedger) apply(t *testing.T, effects []Effect) {
	t.Helper()
	for _, eff := range effects {
		switch e := eff.(type) {
		case CancelTimer:
			if !l[e.Handle] {
				t.Errorf("cancel of inactive timer %d", e.Handle)
			}
			delete(l, e.Handle)
		case StartTimer:
			if e.Interval != StoryTickInterval {
				t.Errorf("timer interval = %v, want %v", e.Interval, StoryTickInterval)
			}
			l[e.Handle] = true
		}
		if len(l) > 1 {
			t.Fatalf("more than one live timer: %v", l)
		}
	}
}
