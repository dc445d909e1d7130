package hotkey

import (
	"fmt"
	"sort"
	"strings"

	"fleaflip/pkg/config"
	"fleaflip/pkg/selection"
)

// Modifier is a bit set of held modifier keys
type Modifier uint32

// Values match the Win32 MOD_* flags
const (
	ModAlt   Modifier = 0x0001
	ModCtrl  Modifier = 0x0002
	ModShift Modifier = 0x0004
	ModWin   Modifier = 0x0008
)

var modifierNames = map[string]Modifier{
	"alt":     ModAlt,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"win":     ModWin,
	"super":   ModWin,
	"cmd":     ModWin,
}

// virtualKeys maps key names to Win32 virtual-key codes
var virtualKeys = map[string]uint32{
	"left":     0x25,
	"up":       0x26,
	"right":    0x27,
	"down":     0x28,
	"space":    0x20,
	"enter":    0x0D,
	"pageup":   0x21,
	"pagedown": 0x22,
	"end":      0x23,
	"home":     0x24,
	"insert":   0x2D,
	"delete":   0x2E,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		virtualKeys[string(c)] = uint32('A' + (c - 'a'))
	}
	for c := '0'; c <= '9'; c++ {
		virtualKeys[string(c)] = uint32(c)
	}
	for i := 1; i <= 12; i++ {
		virtualKeys[fmt.Sprintf("f%d", i)] = uint32(0x70 + i - 1)
	}
}

// Binding is one key combination, e.g. ctrl+alt+up
type Binding struct {
	Modifiers Modifier
	Key       string
}

func (b Binding) String() string {
	var parts []string
	for _, m := range []struct {
		mod  Modifier
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModWin, "win"}} {
		if b.Modifiers&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, b.Key), "+")
}

// VirtualKey returns the Win32 virtual-key code of the binding's key
func (b Binding) VirtualKey() uint32 {
	return virtualKeys[b.Key]
}

// ParseBinding parses "mod+mod+key". Names are case-insensitive.
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, fmt.Errorf("empty key in binding %q", s)
	}

	var b Binding
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.TrimSpace(part)]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in binding %q", part, s)
		}
		b.Modifiers |= mod
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if _, ok := virtualKeys[key]; !ok {
		return Binding{}, fmt.Errorf("unknown key %q in binding %q", key, s)
	}
	b.Key = key

	return b, nil
}

// Bindings maps each logical signal to its key combination
type Bindings map[selection.Event]Binding

// BindingsFromConfig parses the four configured combinations. Two signals
// may not share a combination.
func BindingsFromConfig(keys config.KeyBindings) (Bindings, error) {
	raw := map[selection.Event]string{
		selection.MoveUp:          keys.MoveUp,
		selection.MoveDown:        keys.MoveDown,
		selection.CopyName:        keys.CopyName,
		selection.CopyVendorPrice: keys.CopyVendorPrice,
	}

	bindings := make(Bindings, len(raw))
	seen := make(map[Binding]selection.Event, len(raw))
	for _, ev := range selection.Events() {
		b, err := ParseBinding(raw[ev])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ev, err)
		}
		if other, dup := seen[b]; dup {
			return nil, fmt.Errorf("%s and %s both bound to %s", other, ev, b)
		}
		seen[b] = ev
		bindings[ev] = b
	}
	return bindings, nil
}

// Lookup returns the signal bound to b, or selection.Unknown
func (bs Bindings) Lookup(b Binding) selection.Event {
	for ev, bound := range bs {
		if bound == b {
			return ev
		}
	}
	return selection.Unknown
}

// Describe lists the bindings in a stable order for logs and help text
func (bs Bindings) Describe() []string {
	out := make([]string, 0, len(bs))
	for ev, b := range bs {
		out = append(out, fmt.Sprintf("%s=%s", ev, b))
	}
	sort.Strings(out)
	return out
}
