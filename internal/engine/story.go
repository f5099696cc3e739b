// ABOUTME: Story viewer with a single timed, auto-advancing progress timer.
// ABOUTME: Every transition that starts a timer cancels the previous one first.
package engine

import "github.com/takubon0202/if-instagram-auto/internal/models"

// StoryIncrement is the progress, in percent, added by one timer tick for a
// story.
func StoryIncrement(story models.Story) float64 {
	return float64(StoryTickInterval) * 100 / float64(story.DisplayDuration())
}

// StoriesForHighlight returns the stories tagged with the highlight name.
func StoriesForHighlight(stories []models.Story, name string) []models.Story {
	var out []models.Story
	for _, st := range stories {
		if st.Highlight == name {
			out = append(out, st)
		}
	}
	return out
}

func openStories(s State, index int) (State, []Effect) {
	return openStoryList(s, s.Stories, "", index)
}

func openHighlight(s State, name string) (State, []Effect) {
	stories := StoriesForHighlight(s.Stories, name)
	if len(stories) == 0 {
		return s, nil
	}
	return openStoryList(s, stories, name, 0)
}

func openStoryList(s State, stories []models.Story, highlight string, index int) (State, []Effect) {
	if s.Overlay.Kind != OverlayNone {
		return s, nil
	}
	if index < 0 || index >= len(stories) {
		return s, nil
	}
	s.Overlay = Overlay{
		Kind:  OverlayStory,
		Story: &StoryOverlay{Stories: stories, Highlight: highlight, Index: index},
	}
	return restartStoryTimer(s)
}

// restartStoryTimer resets progress and replaces the timer. The cancel for
// the old handle is always ordered before the start of the new one.
func restartStoryTimer(s State) (State, []Effect) {
	var effects []Effect
	st := *s.Overlay.Story
	if st.Timer != 0 {
		effects = append(effects, CancelTimer{Handle: st.Timer})
	}
	s.lastTimer++
	st.Timer = s.lastTimer
	st.Progress = 0
	s.Overlay.Story = &st
	return s, append(effects, StartTimer{Handle: st.Timer, Interval: StoryTickInterval})
}

func navigateStory(s State, direction int) (State, []Effect) {
	if s.Overlay.Kind != OverlayStory || (direction != -1 && direction != 1) {
		return s, nil
	}
	next := s.Overlay.Story.Index + direction
	if next < 0 || next >= len(s.Overlay.Story.Stories) {
		return closeStory(s)
	}
	st := *s.Overlay.Story
	st.Index = next
	s.Overlay.Story = &st
	return restartStoryTimer(s)
}

func storyTick(s State, handle TimerHandle) (State, []Effect) {
	if s.Overlay.Kind != OverlayStory || handle == 0 || handle != s.Overlay.Story.Timer {
		return s, nil
	}
	st := *s.Overlay.Story
	st.Progress += StoryIncrement(st.Current())
	s.Overlay.Story = &st
	if st.Progress >= 100 {
		return navigateStory(s, 1)
	}
	return s, nil
}

func closeStory(s State) (State, []Effect) {
	if s.Overlay.Kind != OverlayStory {
		return s, nil
	}
	timer := s.Overlay.Story.Timer
	s.Overlay = Overlay{Kind: OverlayNone}
	return s, []Effect{CancelTimer{Handle: timer}}
}
