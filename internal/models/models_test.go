// ABOUTME: Tests for content model helpers.
// ABOUTME: Covers label matching, caption trimming, durations, and timestamp fallback.
package models

import (
	"testing"
	"time"
)

func TestPostLabels(t *testing.T) {
	p := Post{Highlight: "AI", Track: "juku"}
	got := p.Labels()
	if len(got) != 2 || got[0] != "AI" || got[1] != "juku" {
		t.Errorf("Labels() = %v, want [AI juku]", got)
	}
	if !p.HasLabel("juku") {
		t.Error("expected HasLabel(juku) to be true")
	}
	if p.HasLabel("business") {
		t.Error("expected HasLabel(business) to be false")
	}
	if len((Post{}).Labels()) != 0 {
		t.Error("expected no labels for empty post")
	}
}

func TestPostCover(t *testing.T) {
	p := Post{Title: "Hello", Media: []Media{{Src: "a.png", Alt: "first"}, {Src: "b.png"}}}
	if p.Cover().Src != "a.png" {
		t.Errorf("Cover().Src = %q, want a.png", p.Cover().Src)
	}
	empty := Post{Title: "No media"}
	if empty.Cover().Alt != "No media" {
		t.Errorf("Cover().Alt = %q, want title fallback", empty.Cover().Alt)
	}
}

func TestCaptionBody(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"no hashtags", "line one\nline two", "line one\nline two"},
		{"trailing hashtags", "Intro\n\nMore text\n\n#ai #juku", "Intro\n\nMore text"},
		{"leading hashtag paragraph kept", "#first\n\nbody", "#first\n\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Post{Caption: tt.caption}.CaptionBody()
			if got != tt.want {
				t.Errorf("CaptionBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoryDisplayDuration(t *testing.T) {
	tests := []struct {
		duration float64
		want     time.Duration
	}{
		{0, 4 * time.Second},
		{-2, 4 * time.Second},
		{2, 2 * time.Second},
		{1.5, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		got := Story{Duration: tt.duration}.DisplayDuration()
		if got != tt.want {
			t.Errorf("DisplayDuration(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	valid := []string{
		"2025-01-15T10:00:00+09:00",
		"2025-01-15T10:00:00",
		"2025-01-15",
	}
	for _, raw := range valid {
		if _, ok := ParseTimestamp(raw); !ok {
			t.Errorf("ParseTimestamp(%q) should succeed", raw)
		}
	}
	for _, raw := range []string{"", "yesterday", "2025-13-45"} {
		if _, ok := ParseTimestamp(raw); ok {
			t.Errorf("ParseTimestamp(%q) should fail", raw)
		}
	}
}

func TestFormatTimestampFallsBackToRaw(t *testing.T) {
	if got := FormatTimestamp("not a date", "2006-01-02"); got != "not a date" {
		t.Errorf("FormatTimestamp fallback = %q", got)
	}
	if got := FormatTimestamp("2025-01-15T10:00:00Z", "2006/01/02"); got != "2025/01/15" {
		t.Errorf("FormatTimestamp = %q, want 2025/01/15", got)
	}
}
