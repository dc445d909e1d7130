package clipboard

import (
	"errors"
	"fmt"

	sysclip "github.com/atotto/clipboard"
)

// ErrUnavailable means no clipboard backend exists on this system, e.g. a
// Linux session without xclip, xsel or wl-copy.
var ErrUnavailable = errors.New("system clipboard unavailable")

// System writes plain text to the operating system clipboard
type System struct{}

// NewSystem returns the system clipboard adapter
func NewSystem() *System {
	return &System{}
}

// Available reports whether a clipboard backend was found
func (s *System) Available() bool {
	return !sysclip.Unsupported
}

// WriteText replaces the clipboard contents with text
func (s *System) WriteText(text string) error {
	if sysclip.Unsupported {
		return ErrUnavailable
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
