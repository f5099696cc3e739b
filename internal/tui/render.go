// ABOUTME: View rendering for the browse model: header, grid and feed cards, overlays.
// ABOUTME: Captions go through glamour; widths are measured with go-runewidth.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/takubon0202/if-instagram-auto/internal/config"
	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/models"
)

const (
	headerLines = 4
	footerLines = 2
	gridColumns = 3
	feedPreview = 3 // caption lines shown on a feed card
)

var (
	accountStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	hashtagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	overlayText   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("212"))
	overlayStyle      = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("99")).
				Padding(0, 2)
)

// captionRenderer caches a glamour renderer per word-wrap width.
type captionRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

func (c *captionRenderer) render(text string, width int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.renderer == nil || c.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		c.renderer, c.width = r, width
	}
	out, err := c.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.state.Overlay.Kind {
	case engine.OverlayPost:
		b.WriteString(m.renderPostOverlay())
	case engine.OverlayStory:
		b.WriteString(m.renderStoryOverlay())
	default:
		switch m.state.Status {
		case engine.StatusLoading:
			b.WriteString(fmt.Sprintf("\n  %s Loading content...\n", m.spinner.View()))
		case engine.StatusFailed:
			b.WriteString(errorStyle.Render(fmt.Sprintf("\n  ✗ %s\n", m.state.Err)))
			b.WriteString(promptStyle.Render("  press r to retry, q to quit"))
		default:
			b.WriteString(m.viewport.View())
		}
	}

	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m BrowseModel) renderHeader() string {
	title := accountStyle.Render("@" + m.accountName())
	if m.site.Name != "" {
		title += mutedStyle.Render(" · " + m.site.Name)
	}
	if m.state.Status == engine.StatusReady {
		title += mutedStyle.Render(fmt.Sprintf(" · %d posts", len(m.state.Posts)))
	}

	lines := []string{
		title,
		m.renderTray(),
		m.renderCategoryBar(),
		m.renderViewTabs(),
	}
	for i, l := range lines {
		lines[i] = truncate(l, m.width)
	}
	return strings.Join(lines, "\n")
}

// renderTray lists the stories entry point and numbered highlights.
func (m BrowseModel) renderTray() string {
	var parts []string
	if n := len(m.state.Stories); n > 0 {
		parts = append(parts, brandStyle.Render(fmt.Sprintf("◉ stories (%d)", n))+mutedStyle.Render(" [s]"))
	}
	for i, h := range m.state.Highlights {
		if i >= 9 {
			break
		}
		label := h.Name
		if h.Icon != "" {
			label = h.Icon + " " + label
		}
		parts = append(parts, fmt.Sprintf("%s %s", mutedStyle.Render(fmt.Sprintf("[%d]", i+1)), label))
	}
	if len(parts) == 0 {
		return mutedStyle.Render("no stories")
	}
	return strings.Join(parts, "  ")
}

func (m BrowseModel) renderCategoryBar() string {
	options := append([]string{engine.AllCategories}, m.state.Categories...)
	parts := make([]string, len(options))
	for i, c := range options {
		if c == m.state.Feed.Category {
			parts[i] = activeStyle.Render(c)
		} else {
			parts[i] = mutedStyle.Render(c)
		}
	}
	return strings.Join(parts, "  ")
}

func (m BrowseModel) renderViewTabs() string {
	grid, feed := mutedStyle.Render("▦ grid"), mutedStyle.Render("☰ feed")
	if m.state.Feed.ViewMode == engine.ViewFeed {
		feed = activeStyle.Render("☰ feed")
	} else {
		grid = activeStyle.Render("▦ grid")
	}
	count := mutedStyle.Render(fmt.Sprintf("  showing %d of %d",
		len(m.state.Feed.Displayed), len(m.state.Feed.Filtered)))
	return grid + "  " + feed + count
}

func (m BrowseModel) renderFooter() string {
	var keys = m.help.ShortHelpView(feedHelp{m.keys}.ShortHelp())
	if m.state.Overlay.Kind != engine.OverlayNone {
		keys = m.help.View(overlayHelp{m.keys})
	} else if m.help.ShowAll {
		keys = m.help.FullHelpView(feedHelp{m.keys}.FullHelp())
	}
	return keys
}

func (m BrowseModel) columns() int {
	if m.state.Feed.ViewMode == engine.ViewFeed {
		return 1
	}
	return gridColumns
}

// streamRows renders the displayed posts as rows of cards, returning each
// row's text. Grid rows hold gridColumns cards; feed rows hold one.
func (m BrowseModel) streamRows() []string {
	posts := m.state.Feed.Displayed
	cols := m.columns()
	rows := make([]string, 0, (len(posts)+cols-1)/cols)
	for start := 0; start < len(posts); start += cols {
		end := min(start+cols, len(posts))
		if cols == 1 {
			rows = append(rows, m.renderFeedCard(posts[start], start == m.cursor))
			continue
		}
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderGridCard(posts[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return rows
}

func (m BrowseModel) renderStream() string {
	if m.state.Status != engine.StatusReady {
		return ""
	}
	rows := m.streamRows()
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	switch {
	case m.state.Feed.Loading:
		b.WriteString(fmt.Sprintf("  %s Loading more posts...\n", m.spinner.View()))
	case len(m.state.Feed.Displayed) == 0:
		b.WriteString(mutedStyle.Render("  No posts in this category") + "\n")
	case m.state.Feed.EndOfData:
		b.WriteString(mutedStyle.Render("  · end of feed ·") + "\n")
	}
	return b.String()
}

// cursorLines returns the first and one-past-last content lines of the row
// holding the selected post.
func (m BrowseModel) cursorLines() (top, bottom int) {
	rows := m.streamRows()
	target := m.cursor / m.columns()
	for i, r := range rows {
		h := lipgloss.Height(r)
		if i == target {
			return top, top + h
		}
		top += h
	}
	return top, top
}

func (m BrowseModel) cardWidth() int {
	return max(m.width/gridColumns-4, 12)
}

func (m BrowseModel) renderGridCard(p models.Post, selected bool) string {
	w := m.cardWidth()
	inner := w - 2
	icon := postIcon(p)
	cover := p.Cover()
	meta := relativeTime(p.Datetime)
	if len(p.Media) > 1 {
		meta = fmt.Sprintf("%s · %d slides", meta, len(p.Media))
	}
	body := strings.Join([]string{
		truncate(icon+" "+p.Title, inner),
		mutedStyle.Render(truncate(cover.Alt, inner)),
		mutedStyle.Render(truncate(meta, inner)),
	}, "\n")
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(w).Render(body)
}

func (m BrowseModel) renderFeedCard(p models.Post, selected bool) string {
	w := max(m.width-6, 20)
	inner := w - 2
	head := accountStyle.Render("@"+m.accountName()) + mutedStyle.Render(" · "+relativeTime(p.Datetime))
	cover := p.Cover()
	media := fmt.Sprintf("%s %s", postIcon(p), cover.Alt)
	if len(p.Media) > 1 {
		media += mutedStyle.Render(fmt.Sprintf("  1/%d", len(p.Media)))
	}

	lines := []string{truncate(head, inner), truncate(media, inner), accountStyle.Render(truncate(p.Title, inner))}
	caption := strings.Split(strings.TrimSpace(p.CaptionBody()), "\n")
	for i, l := range caption {
		if i == feedPreview {
			lines = append(lines, mutedStyle.Render("..."))
			break
		}
		lines = append(lines, truncate(l, inner))
	}
	if tags := renderHashtags(p.Hashtags); tags != "" {
		lines = append(lines, truncate(tags, inner))
	}
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(w).Render(strings.Join(lines, "\n"))
}

func (m BrowseModel) renderPostOverlay() string {
	view := m.state.Snapshot().Post
	if view == nil {
		return ""
	}
	w := max(m.width-8, 20)
	p := view.Post

	prev, next := mutedStyle.Render("◀"), mutedStyle.Render("▶")
	if view.PrevEnabled {
		prev = accountStyle.Render("◀")
	}
	if view.NextEnabled {
		next = accountStyle.Render("▶")
	}

	lines := []string{
		accountStyle.Render("@"+m.accountName()) + mutedStyle.Render(fmt.Sprintf(" · %s · slide %d/%d",
			models.FormatTimestamp(p.Datetime, "2006-01-02 15:04"), view.Slide+1, view.Count)),
		"",
		fmt.Sprintf("%s  %s %s  %s", prev, postIcon(p), truncate(view.Current.Src, w-10), next),
		mutedStyle.Render(truncate(view.Current.Alt, w)),
	}
	if view.Count > 1 {
		lines = append(lines, renderDots(view.ActiveDot, view.Count))
	}
	lines = append(lines, "", accountStyle.Render(p.Title))
	if body := strings.TrimSpace(p.CaptionBody()); body != "" {
		lines = append(lines, m.captions.render(body, w))
	}
	if tags := renderHashtags(p.Hashtags); tags != "" {
		lines = append(lines, "", tags)
	}
	if cta := m.ctaFor(p); cta != "" {
		lines = append(lines, "", brandStyle.Render("→ "+cta))
	}
	return overlayStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func (m BrowseModel) ctaFor(p models.Post) string {
	if p.CTAURL != "" {
		return p.CTAURL
	}
	return m.site.CTAPrimary
}

func (m BrowseModel) renderStoryOverlay() string {
	view := m.state.Snapshot().Story
	if view == nil {
		return ""
	}
	w := max(m.width-8, 20)
	s := view.Story

	title := accountStyle.Render("@" + m.accountName())
	if view.Highlight != "" {
		title += mutedStyle.Render(" · " + view.Highlight)
	}
	title += mutedStyle.Render(fmt.Sprintf(" · %s · %d/%d", relativeTime(s.Datetime), view.Index+1, view.Count))

	lines := []string{
		renderBars(view.Bars, w),
		title,
		"",
		fmt.Sprintf("%s %s", storyIcon(s), truncate(s.Src, w-4)),
		mutedStyle.Render(truncate(s.Alt, w)),
	}
	if s.TextOverlay != "" {
		lines = append(lines, "", overlayText.Render(s.TextOverlay))
	}
	if s.Link != nil && s.Link.URL != "" {
		label := s.Link.Label
		if label == "" {
			label = s.Link.URL
		}
		lines = append(lines, "", brandStyle.Render("→ "+label)+mutedStyle.Render(" "+s.Link.URL))
	}
	return overlayStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func (m BrowseModel) renderDebug() string {
	entries := m.diag.Last(10)
	if len(entries) == 0 {
		return mutedStyle.Render("diagnostics: no intents recorded")
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, stepStyle.Render(fmt.Sprintf("diagnostics · session %s", m.diag.Session())))
	for _, e := range entries {
		effects := strings.Join(e.Effects, ", ")
		if effects == "" {
			effects = "-"
		}
		lines = append(lines, truncate(fmt.Sprintf("#%d %s %-18s → %s", e.Seq, e.At.Format("15:04:05.000"), e.Intent, effects), m.width))
	}
	return strings.Join(lines, "\n")
}

func (m BrowseModel) accountName() string {
	if m.account == "" {
		return config.DefaultAccount
	}
	return m.account
}

// renderBars draws one progress segment per story.
func renderBars(bars []float64, width int) string {
	n := len(bars)
	if n == 0 {
		return ""
	}
	seg := max((width-(n-1))/n, 1)
	parts := make([]string, n)
	for i, pct := range bars {
		filled := int(float64(seg) * pct / 100)
		parts[i] = barFullStyle.Render(strings.Repeat("━", filled)) +
			barEmptyStyle.Render(strings.Repeat("━", seg-filled))
	}
	return strings.Join(parts, " ")
}

func renderDots(active, count int) string {
	dots := make([]string, count)
	for i := range dots {
		if i == active {
			dots[i] = accountStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func renderHashtags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out[i] = t
	}
	return hashtagStyle.Render(strings.Join(out, " "))
}

func postIcon(p models.Post) string {
	switch p.Type {
	case models.PostCarousel:
		return "❐"
	case models.PostReel:
		return "▶"
	default:
		return "▣"
	}
}

func storyIcon(s models.Story) string {
	if s.Type == "video" {
		return "▶"
	}
	return "▣"
}

// relativeTime renders a content timestamp as "3 days ago", keeping the raw
// value when it cannot be parsed.
func relativeTime(raw string) string {
	t, ok := models.ParseTimestamp(raw)
	if !ok {
		return raw
	}
	return humanize.RelTime(t, time.Now(), "ago", "from now")
}

// truncate cuts s to width display cells. Strings carrying ANSI styling are
// measured with lipgloss, plain strings with runewidth.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	if strings.Contains(s, "\x1b") {
		if lipgloss.Width(s) <= width {
			return s
		}
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return runewidth.Truncate(s, width, "…")
}
