package display

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"fleaflip/pkg/config"
	"fleaflip/pkg/selection"
	"fleaflip/pkg/tarkov"

	tea "github.com/charmbracelet/bubbletea"
)

func catalogOf(n int) tarkov.Catalog {
	records := make([]tarkov.RawItemRecord, n)
	for i := range records {
		low := 100
		records[i] = tarkov.RawItemRecord{
			Name:        fmt.Sprintf("Item %02d", i),
			Low24hPrice: &low,
			SellFor:     []tarkov.VendorOffer{{VendorName: "Jaeger", Price: 1000 - i}},
		}
	}
	return tarkov.NewCatalog(records, tarkov.DefaultMarketVendor)
}

func newTestModel(rows int) (Model, chan selection.Event) {
	events := make(chan selection.Event, 8)
	m := New(Options{
		Title:       "FleaFlip",
		VisibleRows: rows,
		Keys:        NewKeyMap(config.Default().Keys.Local),
		Events:      events,
	})
	return m, events
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestFocusedKeysBecomeEvents(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want selection.Event
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, selection.MoveUp},
		{tea.KeyMsg{Type: tea.KeyDown}, selection.MoveDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, selection.CopyName},
		{tea.KeyMsg{Type: tea.KeyRight}, selection.CopyVendorPrice},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			m, events := newTestModel(10)
			update(t, m, tt.msg)

			select {
			case got := <-events:
				if got != tt.want {
					t.Errorf("event = %v, want %v", got, tt.want)
				}
			default:
				t.Fatal("no event sent")
			}
		})
	}
}

func TestUnboundKeysSendNothing(t *testing.T) {
	m, events := newTestModel(10)
	update(t, m, runeKey('x'))
	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(events) != 0 {
		t.Errorf("%d events sent for unbound keys", len(events))
	}
}

func TestFullEventBufferDropsKeyPress(t *testing.T) {
	events := make(chan selection.Event)
	m := New(Options{Keys: NewKeyMap(config.Default().Keys.Local), Events: events})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "key press dropped") {
		t.Errorf("dropped press not reported:\n%s", m.View())
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(10)
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: no command returned", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", msg)
		}
	}
}

func TestRefreshKey(t *testing.T) {
	allowed := true
	calls := 0
	m := New(Options{
		Keys:    NewKeyMap(config.Default().Keys.Local),
		Refresh: func() bool { calls++; return allowed },
	})

	m, _ = update(t, m, runeKey('r'))
	if calls != 1 || !strings.Contains(m.View(), "Refreshing...") {
		t.Errorf("calls = %d, view:\n%s", calls, m.View())
	}

	allowed = false
	m, _ = update(t, m, runeKey('r'))
	if !strings.Contains(m.View(), "too recently") {
		t.Errorf("rate-limited refresh not reported:\n%s", m.View())
	}
}

func TestViewHighlightsSelection(t *testing.T) {
	m, _ := newTestModel(10)
	m, _ = update(t, m, StateMsg{Catalog: catalogOf(3), Index: 1})

	view := m.View()
	for _, want := range []string{"FleaFlip", "Item Name :  Price Difference (Optimal Vendor)", "> Item 01 :   899 (Jaeger)", "  Item 00 :   900 (Jaeger)", "3 items"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewParked(t *testing.T) {
	m, _ := newTestModel(10)
	m, _ = update(t, m, StateMsg{Parked: true})

	if !strings.Contains(m.View(), "(empty)") {
		t.Errorf("parked view:\n%s", m.View())
	}
}

func TestViewScrollsWithSelection(t *testing.T) {
	m, _ := newTestModel(5)
	catalog := catalogOf(20)

	m, _ = update(t, m, StateMsg{Catalog: catalog, Index: 12})
	view := m.View()
	if !strings.Contains(view, "> Item 12") {
		t.Fatalf("selected row not visible:\n%s", view)
	}
	if strings.Contains(view, "Item 07") || strings.Contains(view, "Item 13") {
		t.Errorf("window is not rows 8-12:\n%s", view)
	}

	m, _ = update(t, m, StateMsg{Catalog: catalog, Index: 0})
	if !strings.Contains(m.View(), "> Item 00") || strings.Contains(m.View(), "Item 05") {
		t.Errorf("window did not scroll back up:\n%s", m.View())
	}
}

func TestWindowSizeLimitsRows(t *testing.T) {
	m, _ := newTestModel(30)
	m, _ = update(t, m, StateMsg{Catalog: catalogOf(20), Index: 0})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 9})

	if got := m.rows(); got != 3 {
		t.Errorf("rows() = %d, want 3", got)
	}
	if strings.Contains(m.View(), "Item 03") {
		t.Errorf("view drew more rows than fit:\n%s", m.View())
	}
}

func TestErrorAndStatusMessages(t *testing.T) {
	m, _ := newTestModel(10)

	m, _ = update(t, m, ErrMsg{Err: errors.New("clipboard unavailable")})
	if !strings.Contains(m.View(), "error: clipboard unavailable") {
		t.Errorf("error not shown:\n%s", m.View())
	}

	m, _ = update(t, m, StatusMsg("Catalog refreshed"))
	view := m.View()
	if strings.Contains(view, "error:") || !strings.Contains(view, "Catalog refreshed") {
		t.Errorf("status did not replace error:\n%s", view)
	}
}
