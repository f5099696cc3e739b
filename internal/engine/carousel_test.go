// ABOUTME: Tests for the post detail overlay and scroll continuity.
// ABOUTME: Covers clamped navigation, direct slide jumps, and anchor restoration.
package engine

import (
	"testing"

	"github.com/takubon0202/if-instagram-auto/internal/models"
)

func carouselState(t *testing.T, media int) State {
	t.Helper()
	posts := makePosts(3, nil)
	posts[1].Type = models.PostCarousel
	posts[1].Media = make([]models.Media, media)
	for i := range posts[1].Media {
		posts[1].Media[i] = models.Media{Src: "slide.png", Alt: "slide"}
	}
	s := loaded(posts, nil)
	s = run(s, OpenPost{Index: 1})
	if s.Overlay.Kind != OverlayPost {
		t.Fatalf("expected post overlay to open")
	}
	return s
}

func TestOpenPostStartsAtFirstSlide(t *testing.T) {
	s := carouselState(t, 4)
	if s.Overlay.Post.Slide != 0 {
		t.Errorf("slide = %d, want 0", s.Overlay.Post.Slide)
	}
	if s.Overlay.Post.Post.ID != "post-001" {
		t.Errorf("open post = %s, want post-001", s.Overlay.Post.Post.ID)
	}
}

func TestOpenPostRejectsInvalidIndex(t *testing.T) {
	s := loaded(makePosts(3, nil), nil)
	for _, idx := range []int{-1, 3, 100} {
		got := run(s, OpenPost{Index: idx})
		if got.Overlay.Kind != OverlayNone {
			t.Errorf("OpenPost(%d) opened an overlay", idx)
		}
		if got.Scroll.Captured {
			t.Errorf("OpenPost(%d) captured scroll", idx)
		}
	}
}

func TestCarouselClamp(t *testing.T) {
	const m = 4
	s := carouselState(t, m)

	s = run(s, NavigateCarousel{Direction: -1})
	if s.Overlay.Post.Slide != 0 {
		t.Fatalf("navigate(-1) from 0 moved to %d", s.Overlay.Post.Slide)
	}

	for i := 0; i < m+3; i++ {
		s = run(s, NavigateCarousel{Direction: 1})
		if s.Overlay.Post.Slide < 0 || s.Overlay.Post.Slide >= m {
			t.Fatalf("slide %d out of range", s.Overlay.Post.Slide)
		}
	}
	if s.Overlay.Post.Slide != m-1 {
		t.Errorf("slide = %d, want %d", s.Overlay.Post.Slide, m-1)
	}

	s = run(s, NavigateCarousel{Direction: 2})
	if s.Overlay.Post.Slide != m-1 {
		t.Errorf("direction 2 should be ignored, slide = %d", s.Overlay.Post.Slide)
	}
}

func TestCarouselDerivedFacts(t *testing.T) {
	s := carouselState(t, 3)

	tests := []struct {
		slide      int
		prev, next bool
	}{
		{0, false, true},
		{1, true, true},
		{2, true, false},
	}
	for _, tt := range tests {
		s = run(s, JumpToSlide{Index: tt.slide})
		view := s.Snapshot().Post
		if view == nil {
			t.Fatal("expected carousel view in snapshot")
		}
		if view.Slide != tt.slide || view.ActiveDot != tt.slide || view.OffsetPercent != tt.slide*100 {
			t.Errorf("slide %d: inconsistent view %+v", tt.slide, view)
		}
		if view.PrevEnabled != tt.prev || view.NextEnabled != tt.next {
			t.Errorf("slide %d: prev=%v next=%v, want prev=%v next=%v",
				tt.slide, view.PrevEnabled, view.NextEnabled, tt.prev, tt.next)
		}
		if view.Count != 3 {
			t.Errorf("count = %d, want 3", view.Count)
		}
	}
}

func TestSingleSlideDisablesBothArrows(t *testing.T) {
	s := carouselState(t, 1)
	view := s.Snapshot().Post
	if view.PrevEnabled || view.NextEnabled {
		t.Errorf("single slide should disable both arrows: %+v", view)
	}
}

func TestJumpToSlideOutOfRangeIgnored(t *testing.T) {
	s := carouselState(t, 3)
	s = run(s, JumpToSlide{Index: 2}, JumpToSlide{Index: 5}, JumpToSlide{Index: -1})
	if s.Overlay.Post.Slide != 2 {
		t.Errorf("slide = %d, want 2", s.Overlay.Post.Slide)
	}
}

func TestCarouselIntentsIgnoredWhenClosed(t *testing.T) {
	s := loaded(makePosts(3, nil), nil)
	for _, in := range []Intent{NavigateCarousel{Direction: 1}, JumpToSlide{Index: 0}, ClosePost{}} {
		got, effects := Reduce(s, in)
		if got.Overlay.Kind != OverlayNone || len(effects) != 0 {
			t.Errorf("%s on closed overlay changed state", in.Name())
		}
	}
}

func TestScrollCapturedAndRestoredOnce(t *testing.T) {
	s := loaded(makePosts(30, nil), nil)
	s = run(s, Scrolled{Offset: 640}, OpenPost{Index: 2})
	if !s.Scroll.Captured || s.Scroll.Anchor != 640 {
		t.Fatalf("expected anchor 640, got %+v", s.Scroll)
	}

	// Scrolling behind the overlay must not move the anchor.
	s = run(s, Scrolled{Offset: 0})

	s, effects := Reduce(s, ClosePost{})
	if s.Overlay.Kind != OverlayNone || s.Overlay.Post != nil {
		t.Fatal("expected overlay to be discarded")
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %v", effects)
	}
	restore, ok := effects[0].(RestoreScroll)
	if !ok || restore.Offset != 640 {
		t.Errorf("effect = %v, want RestoreScroll{640}", effects[0])
	}
	if s.Scroll.Captured {
		t.Error("anchor should be consumed")
	}

	_, again := Reduce(s, ClosePost{})
	if len(again) != 0 {
		t.Errorf("second close produced effects: %v", again)
	}
}

func TestScrolledClampsNegative(t *testing.T) {
	s := loaded(makePosts(3, nil), nil)
	s = run(s, Scrolled{Offset: -5})
	if s.Scroll.Offset != 0 {
		t.Errorf("offset = %d, want 0", s.Scroll.Offset)
	}
}
