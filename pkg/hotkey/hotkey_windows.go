package hotkey

import (
	"context"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/selection"
)

var (
	user32                 = syscall.NewLazyDLL("user32.dll")
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessage         = user32.NewProc("GetMessageW")
	procPostThreadMessage  = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

const (
	modNoRepeat = 0x4000
	wmHotkey    = 0x0312
	wmQuit      = 0x0012
)

type msg struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type windowsSource struct {
	bindings Bindings
	logger   *logging.Logger
}

func newPlatformSource(bindings Bindings, logger *logging.Logger) Source {
	return &windowsSource{bindings: bindings, logger: logger}
}

// Listen registers every binding with RegisterHotKey on a dedicated OS
// thread and pumps that thread's message queue. Hotkey messages arrive on
// the registering thread only, so the goroutine stays locked to it.
func (s *windowsSource) Listen(ctx context.Context, sink chan<- selection.Event) error {
	ready := make(chan uintptr, 1)
	done := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		threadID, _, _ := procGetCurrentThreadID.Call()

		ids := make(map[uintptr]selection.Event, len(s.bindings))
		defer func() {
			for id := range ids {
				procUnregisterHotKey.Call(0, id)
			}
		}()

		var id uintptr = 1
		for _, ev := range selection.Events() {
			b, ok := s.bindings[ev]
			if !ok {
				continue
			}
			ret, _, err := procRegisterHotKey.Call(
				0, // hwnd (0 = current thread)
				id,
				uintptr(b.Modifiers)|modNoRepeat,
				uintptr(b.VirtualKey()),
			)
			if ret == 0 {
				done <- fmt.Errorf("registering %s for %s: %w", b, ev, err)
				return
			}
			ids[id] = ev
			id++
		}

		s.logger.WithComponent("hotkey").WithField("bindings", s.bindings.Describe()).Info("Global hotkeys registered")
		ready <- threadID

		var m msg
		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			// 0 is WM_QUIT, -1 is an error
			if int32(ret) <= 0 {
				break
			}
			if m.Message != wmHotkey {
				continue
			}
			ev, ok := ids[m.WParam]
			if !ok {
				continue
			}
			select {
			case sink <- ev:
			case <-ctx.Done():
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case threadID := <-ready:
		<-ctx.Done()
		procPostThreadMessage.Call(threadID, wmQuit, 0, 0)
		err := <-done
		s.logger.WithComponent("hotkey").Info("Global hotkeys released")
		return err
	}
}
