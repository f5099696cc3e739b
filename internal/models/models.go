// ABOUTME: Core content models for posts, media, stories, and highlights.
// ABOUTME: Mirrors the JSON wire format of the static content repository.
package models

import (
	"strings"
	"time"
)

// PostType is the presentation kind of a post.
type PostType string

const (
	PostImage    PostType = "image"
	PostCarousel PostType = "carousel"
	PostReel     PostType = "reel"
)

// DefaultStoryDuration is used when a story has no positive duration.
const DefaultStoryDuration = 4 * time.Second

// Media is a single slide of a post.
type Media struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Post is an immutable feed item.
type Post struct {
	ID        string   `json:"id"`
	Datetime  string   `json:"datetime"`
	Type      PostType `json:"type"`
	Track     string   `json:"track"`
	Title     string   `json:"title"`
	Caption   string   `json:"caption"`
	CTAURL    string   `json:"cta_url"`
	Media     []Media  `json:"media"`
	Hashtags  []string `json:"hashtags"`
	Highlight string   `json:"highlight,omitempty"`
	Category  string   `json:"category,omitempty"`
}

// Labels returns the category-bearing fields of the post in the order
// highlight, track, category. Empty fields are skipped.
func (p Post) Labels() []string {
	labels := make([]string, 0, 3)
	for _, l := range []string{p.Highlight, p.Track, p.Category} {
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// HasLabel reports whether any of the post's label fields equals label.
func (p Post) HasLabel(label string) bool {
	return p.Highlight == label || p.Track == label || p.Category == label
}

// Cover returns the first media item, or a zero Media using the title as alt text.
func (p Post) Cover() Media {
	if len(p.Media) > 0 {
		return p.Media[0]
	}
	return Media{Alt: p.Title}
}

// CaptionBody returns the caption without its hashtag paragraphs. Hashtags
// are shown separately in the detail view.
func (p Post) CaptionBody() string {
	paragraphs := strings.Split(p.Caption, "\n\n")
	for i, para := range paragraphs {
		if i > 0 && strings.HasPrefix(strings.TrimSpace(para), "#") {
			return strings.Join(paragraphs[:i], "\n\n")
		}
	}
	return p.Caption
}

// StoryLink is an optional call-to-action attached to a story.
type StoryLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Story is an ephemeral, timed item.
type Story struct {
	ID          string     `json:"id"`
	Datetime    string     `json:"datetime"`
	Type        string     `json:"type"`
	Src         string     `json:"src"`
	Alt         string     `json:"alt"`
	Duration    float64    `json:"duration,omitempty"` // seconds
	Highlight   string     `json:"highlight,omitempty"`
	TextOverlay string     `json:"text_overlay,omitempty"`
	Link        *StoryLink `json:"link,omitempty"`
}

// DisplayDuration returns how long the story stays on screen.
func (s Story) DisplayDuration() time.Duration {
	if s.Duration <= 0 {
		return DefaultStoryDuration
	}
	return time.Duration(s.Duration * float64(time.Second))
}

// Highlight groups stories under a name.
type Highlight struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a content datetime. ok is false for malformed values.
func ParseTimestamp(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp formats raw with layout, falling back to the raw value
// when it cannot be parsed.
func FormatTimestamp(raw, layout string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return t.Format(layout)
}
