// ABOUTME: Scroll continuity around the post detail overlay.
// ABOUTME: Captures the viewport offset on open and restores it once on close.
package engine

func scrolled(s State, offset int) State {
	if offset < 0 {
		offset = 0
	}
	s.Scroll.Offset = offset
	return s
}

func captureScroll(s State) State {
	s.Scroll.Anchor = s.Scroll.Offset
	s.Scroll.Captured = true
	return s
}

// restoreScroll consumes the anchor. Without a captured anchor it does nothing.
func restoreScroll(s State) (State, []Effect) {
	if !s.Scroll.Captured {
		return s, nil
	}
	offset := s.Scroll.Anchor
	s.Scroll.Anchor = 0
	s.Scroll.Captured = false
	s.Scroll.Offset = offset
	return s, []Effect{RestoreScroll{Offset: offset}}
}
