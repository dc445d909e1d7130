package selection

import "strings"

// Event is a logical input signal for the controller
type Event int

const (
	// Unknown is any input the controller does not act on
	Unknown Event = iota
	MoveUp
	MoveDown
	CopyName
	CopyVendorPrice
)

var eventNames = map[Event]string{
	Unknown:         "unknown",
	MoveUp:          "move_up",
	MoveDown:        "move_down",
	CopyName:        "copy_name",
	CopyVendorPrice: "copy_vendor_price",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return eventNames[Unknown]
}

// ParseEvent maps a config name such as "move_up" to its Event
func ParseEvent(name string) Event {
	name = strings.ToLower(strings.TrimSpace(name))
	for ev, n := range eventNames {
		if n == name {
			return ev
		}
	}
	return Unknown
}

// Events lists the four signals the controller acts on
func Events() []Event {
	return []Event{MoveUp, MoveDown, CopyName, CopyVendorPrice}
}
