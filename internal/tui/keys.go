// ABOUTME: Key bindings for the browse model.
// ABOUTME: Feed, post overlay, and story overlay each get their own help set.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Open       key.Binding
	Close      key.Binding
	ToggleView key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	AllFilter  key.Binding
	LoadMore   key.Binding
	Stories    key.Binding
	Highlight  key.Binding
	Reload     key.Binding
	Debug      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open post")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "grid/feed")),
		NextFilter: key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next category")),
		PrevFilter: key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev category")),
		AllFilter:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all posts")),
		LoadMore:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Stories:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stories")),
		Highlight:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "highlight / slide")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Debug:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "diagnostics")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// feedHelp is the help.KeyMap for the stream.
type feedHelp struct{ k keyMap }

func (h feedHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Open, h.k.ToggleView, h.k.NextFilter, h.k.Stories, h.k.Help, h.k.Quit}
}

func (h feedHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Left, h.k.Right, h.k.PageUp, h.k.PageDown},
		{h.k.Open, h.k.ToggleView, h.k.NextFilter, h.k.PrevFilter, h.k.AllFilter},
		{h.k.LoadMore, h.k.Stories, h.k.Highlight, h.k.Reload, h.k.Debug, h.k.Quit},
	}
}

// overlayHelp is the help.KeyMap shared by both overlays.
type overlayHelp struct{ k keyMap }

func (h overlayHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Left, h.k.Right, h.k.Close}
}

func (h overlayHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{{h.k.Left, h.k.Right, h.k.Highlight, h.k.Close}}
}
