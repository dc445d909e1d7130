package clipboard

import (
	"errors"
	"testing"
)

func TestWriteTextWithoutBackend(t *testing.T) {
	s := NewSystem()
	if s.Available() {
		t.Skip("clipboard backend present; not overwriting the user's clipboard")
	}

	if err := s.WriteText("Salewa first aid kit"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("WriteText() = %v, want ErrUnavailable", err)
	}
}
