// ABOUTME: Post detail overlay with clamped multi-slide navigation.
// ABOUTME: Opening captures the scroll anchor; closing schedules its restoration.
package engine

func openPost(s State, index int) State {
	if s.Overlay.Kind != OverlayNone {
		return s
	}
	if index < 0 || index >= len(s.Feed.Displayed) {
		return s
	}
	post := s.Feed.Displayed[index]
	if len(post.Media) == 0 {
		return s
	}
	s.Overlay = Overlay{
		Kind: OverlayPost,
		Post: &PostOverlay{Post: post, Index: index},
	}
	return captureScroll(s)
}

func navigateCarousel(s State, direction int) State {
	if s.Overlay.Kind != OverlayPost || (direction != -1 && direction != 1) {
		return s
	}
	return setSlide(s, s.Overlay.Post.Slide+direction)
}

func jumpToSlide(s State, index int) State {
	if s.Overlay.Kind != OverlayPost {
		return s
	}
	return setSlide(s, index)
}

// setSlide is a no-op outside [0, mediaCount).
func setSlide(s State, slide int) State {
	if slide < 0 || slide >= len(s.Overlay.Post.Post.Media) {
		return s
	}
	p := *s.Overlay.Post
	p.Slide = slide
	s.Overlay.Post = &p
	return s
}

func closePost(s State) (State, []Effect) {
	if s.Overlay.Kind != OverlayPost {
		return s, nil
	}
	s.Overlay = Overlay{Kind: OverlayNone}
	return restoreScroll(s)
}
