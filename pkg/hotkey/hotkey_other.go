//go:build !windows

package hotkey

import (
	"context"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/selection"
)

type unsupportedSource struct{}

func newPlatformSource(Bindings, *logging.Logger) Source {
	return unsupportedSource{}
}

func (unsupportedSource) Listen(context.Context, chan<- selection.Event) error {
	return ErrUnsupported
}
