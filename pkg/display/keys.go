package display

import (
	"strings"

	"fleaflip/pkg/config"
	"fleaflip/pkg/selection"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the keys the list reacts to while it has focus
type KeyMap struct {
	MoveUp          key.Binding
	MoveDown        key.Binding
	CopyName        key.Binding
	CopyVendorPrice key.Binding
	Refresh         key.Binding
	Quit            key.Binding
}

// NewKeyMap builds the focused key map from configured bindings. Binding
// strings use bubbletea key names ("up", "left", "ctrl+n", ...).
func NewKeyMap(kb config.KeyBindings) KeyMap {
	return KeyMap{
		MoveUp:          key.NewBinding(key.WithKeys(kb.MoveUp), key.WithHelp(arrowHelp(kb.MoveUp), "up")),
		MoveDown:        key.NewBinding(key.WithKeys(kb.MoveDown), key.WithHelp(arrowHelp(kb.MoveDown), "down")),
		CopyName:        key.NewBinding(key.WithKeys(kb.CopyName), key.WithHelp(arrowHelp(kb.CopyName), "copy name")),
		CopyVendorPrice: key.NewBinding(key.WithKeys(kb.CopyVendorPrice), key.WithHelp(arrowHelp(kb.CopyVendorPrice), "copy trader price")),
		Refresh:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.CopyName, k.CopyVendorPrice, k.Refresh, k.Quit}
}

// event maps a key press to a selection event
func (k KeyMap) event(msg tea.KeyMsg) selection.Event {
	switch {
	case key.Matches(msg, k.MoveUp):
		return selection.MoveUp
	case key.Matches(msg, k.MoveDown):
		return selection.MoveDown
	case key.Matches(msg, k.CopyName):
		return selection.CopyName
	case key.Matches(msg, k.CopyVendorPrice):
		return selection.CopyVendorPrice
	}
	return selection.Unknown
}

func arrowHelp(k string) string {
	switch strings.ToLower(k) {
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return k
}
