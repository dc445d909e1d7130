package hotkey

import (
	"context"
	"errors"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/selection"
)

// ErrUnsupported is returned by Listen on platforms without a system-wide
// key capture adapter.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Source delivers logical events from system-wide key presses, whether or
// not the application window has focus.
type Source interface {
	// Listen sends one event per key press to sink, in the order they
	// occur, until ctx is done. It returns nil after cancellation.
	Listen(ctx context.Context, sink chan<- selection.Event) error
}

// New returns the platform's global key source for bindings
func New(bindings Bindings, logger *logging.Logger) Source {
	return newPlatformSource(bindings, logger)
}
