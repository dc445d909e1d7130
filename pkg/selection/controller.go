package selection

import (
	"context"
	"fmt"
	"strconv"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/tarkov"
)

// Clipboard is the single operation the controller needs from the system
// clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// ClipboardWriteError reports a failed copy. The selection is unchanged.
type ClipboardWriteError struct {
	Event Event
	Err   error
}

func (e *ClipboardWriteError) Error() string {
	return fmt.Sprintf("clipboard write for %s: %v", e.Event, e.Err)
}

func (e *ClipboardWriteError) Unwrap() error {
	return e.Err
}

// State is a snapshot of the selection. Index is meaningless when Parked.
type State struct {
	Catalog tarkov.Catalog
	Index   int
	Parked  bool
}

// Current returns the selected item, or false when parked
func (s State) Current() (tarkov.RankedItem, bool) {
	if s.Parked || s.Index < 0 || s.Index >= s.Catalog.Len() {
		return tarkov.RankedItem{}, false
	}
	return s.Catalog.At(s.Index), true
}

// Observer is notified after every change of State
type Observer func(State)

// Controller tracks the highlighted catalog item and performs copies.
//
// Handle and Replace must only be called from one goroutine. Run is that
// goroutine in the running program; other goroutines hand over work through
// the events channel and Publish.
type Controller struct {
	catalog   tarkov.Catalog
	index     int
	clipboard Clipboard
	logger    *logging.Logger

	observers []Observer
	onError   func(error)
	snapshots chan tarkov.Catalog
}

// NewController starts at index 0, or parked when catalog is empty
func NewController(catalog tarkov.Catalog, clipboard Clipboard, logger *logging.Logger) *Controller {
	return &Controller{
		catalog:   catalog,
		clipboard: clipboard,
		logger:    logger,
		snapshots: make(chan tarkov.Catalog, 1),
	}
}

// Subscribe registers an observer and immediately sends it the current
// state. Call before Run.
func (c *Controller) Subscribe(observer Observer) {
	c.observers = append(c.observers, observer)
	observer(c.State())
}

// OnError sets the handler for errors raised while Run applies events.
// Call before Run.
func (c *Controller) OnError(fn func(error)) {
	c.onError = fn
}

// State returns the current selection
func (c *Controller) State() State {
	return State{
		Catalog: c.catalog,
		Index:   c.index,
		Parked:  c.catalog.Empty(),
	}
}

// Handle applies one event. Navigation stops at both ends of the list.
// Copy events return a *ClipboardWriteError on failure. Every event is a
// no-op while parked; unrecognised events are always ignored.
func (c *Controller) Handle(ev Event) error {
	if c.catalog.Empty() {
		return nil
	}
	c.index = clamp(c.index, c.catalog.Len())

	switch ev {
	case MoveUp:
		if c.index > 0 {
			c.index--
			c.notify()
		}
	case MoveDown:
		if c.index < c.catalog.Len()-1 {
			c.index++
			c.notify()
		}
	case CopyName:
		return c.copy(ev, c.catalog.At(c.index).Name)
	case CopyVendorPrice:
		return c.copy(ev, strconv.Itoa(c.catalog.At(c.index).VendorPrice))
	}
	return nil
}

// Replace installs a freshly built catalog. The selection stays on the
// same item name when it survived the rebuild, otherwise it returns to the
// top.
func (c *Controller) Replace(catalog tarkov.Catalog) {
	index := 0
	if item, ok := c.State().Current(); ok {
		if i := catalog.Index(item.Name); i >= 0 {
			index = i
		}
	}

	c.catalog = catalog
	c.index = index

	c.logger.WithSelection().WithFields(map[string]interface{}{
		"items": catalog.Len(),
		"index": index,
	}).Debug("Catalog snapshot applied")
	c.notify()
}

// Publish hands a catalog to Run from any goroutine without blocking. If an
// earlier snapshot is still waiting it is dropped in favour of this one.
func (c *Controller) Publish(catalog tarkov.Catalog) {
	for {
		select {
		case c.snapshots <- catalog:
			return
		default:
		}
		select {
		case <-c.snapshots:
		default:
		}
	}
}

// Run owns the selection until ctx is done or events is closed. Events are
// applied one at a time in arrival order; published snapshots are applied
// between events.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case catalog := <-c.snapshots:
			c.Replace(catalog)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Handle(ev); err != nil {
				c.logger.WithSelection().WithError(err).Warn("Event failed")
				if c.onError != nil {
					c.onError(err)
				}
			}
		}
	}
}

func (c *Controller) copy(ev Event, text string) error {
	if err := c.clipboard.WriteText(text); err != nil {
		return &ClipboardWriteError{Event: ev, Err: err}
	}
	c.logger.ClipboardWrite(ev.String(), len(text))
	return nil
}

func (c *Controller) notify() {
	state := c.State()
	for _, observer := range c.observers {
		observer(state)
	}
}

// clamp pulls index back into [0, length)
func clamp(index, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
