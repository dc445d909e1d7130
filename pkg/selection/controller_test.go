package selection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleaflip/pkg/logging"
	"fleaflip/pkg/tarkov"
)

// fakeClipboard records writes for testing
type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (f *fakeClipboard) WriteText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeClipboard) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return ""
	}
	return f.writes[len(f.writes)-1]
}

func intPtr(i int) *int {
	return &i
}

func record(name string, market, vendor int, vendorName string) tarkov.RawItemRecord {
	return tarkov.RawItemRecord{
		Name:        name,
		Low24hPrice: intPtr(market),
		SellFor:     []tarkov.VendorOffer{{VendorName: vendorName, Price: vendor}},
	}
}

// twoItemCatalog is [Item A (delta 50), Item C (delta -10)]
func twoItemCatalog() tarkov.Catalog {
	return tarkov.NewCatalog([]tarkov.RawItemRecord{
		record("Item A", 100, 150, "Trader1"),
		record("Item B", 0, 500, "Trader2"),
		record("Item C", 50, 40, "Trader3"),
	}, tarkov.DefaultMarketVendor)
}

func newTestController(catalog tarkov.Catalog, clip Clipboard) *Controller {
	return NewController(catalog, clip, logging.NewDiscardLogger())
}

func TestControllerScenario(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestController(twoItemCatalog(), clip)

	if c.State().Index != 0 {
		t.Fatalf("initial index = %d, want 0", c.State().Index)
	}
	if item, _ := c.State().Current(); item.Name != "Item A" {
		t.Fatalf("initial item = %q, want Item A", item.Name)
	}

	if err := c.Handle(MoveDown); err != nil {
		t.Fatalf("MoveDown error = %v", err)
	}
	if c.State().Index != 1 {
		t.Fatalf("index after MoveDown = %d, want 1", c.State().Index)
	}

	if err := c.Handle(MoveDown); err != nil {
		t.Fatalf("second MoveDown error = %v", err)
	}
	if c.State().Index != 1 {
		t.Fatalf("index after second MoveDown = %d, want 1", c.State().Index)
	}

	if err := c.Handle(CopyName); err != nil {
		t.Fatalf("CopyName error = %v", err)
	}
	if clip.last() != "Item C" {
		t.Errorf("clipboard = %q, want Item C", clip.last())
	}
}

func TestControllerBoundaries(t *testing.T) {
	c := newTestController(twoItemCatalog(), &fakeClipboard{})

	if err := c.Handle(MoveUp); err != nil {
		t.Fatalf("MoveUp error = %v", err)
	}
	if c.State().Index != 0 {
		t.Errorf("MoveUp at top moved to %d", c.State().Index)
	}

	_ = c.Handle(MoveDown)
	_ = c.Handle(MoveDown)
	_ = c.Handle(MoveDown)
	if c.State().Index != 1 {
		t.Errorf("MoveDown past the end gave index %d, want 1", c.State().Index)
	}

	_ = c.Handle(MoveUp)
	if c.State().Index != 0 {
		t.Errorf("MoveUp from 1 gave %d, want 0", c.State().Index)
	}
}

func TestControllerCopyVendorPrice(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestController(twoItemCatalog(), clip)

	if err := c.Handle(CopyVendorPrice); err != nil {
		t.Fatalf("CopyVendorPrice error = %v", err)
	}
	if clip.last() != "150" {
		t.Errorf("clipboard = %q, want 150", clip.last())
	}
	if c.State().Index != 0 {
		t.Errorf("copy changed index to %d", c.State().Index)
	}
}

func TestControllerClipboardFailure(t *testing.T) {
	cause := errors.New("no display")
	c := newTestController(twoItemCatalog(), &fakeClipboard{err: cause})
	_ = c.Handle(MoveDown)

	err := c.Handle(CopyName)

	var clipErr *ClipboardWriteError
	if !errors.As(err, &clipErr) {
		t.Fatalf("error = %v, want *ClipboardWriteError", err)
	}
	if clipErr.Event != CopyName || !errors.Is(err, cause) {
		t.Errorf("unexpected error details: %v", err)
	}
	if c.State().Index != 1 {
		t.Errorf("failed copy moved index to %d", c.State().Index)
	}
}

func TestControllerIgnoresUnknownEvents(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestController(twoItemCatalog(), clip)

	for _, ev := range []Event{Unknown, Event(42), Event(-1)} {
		if err := c.Handle(ev); err != nil {
			t.Errorf("Handle(%d) error = %v", ev, err)
		}
	}
	if c.State().Index != 0 || len(clip.writes) != 0 {
		t.Errorf("unknown events changed state: index %d, writes %v", c.State().Index, clip.writes)
	}
}

func TestControllerParkedWhenEmpty(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestController(tarkov.Catalog{}, clip)

	if !c.State().Parked {
		t.Fatal("empty catalog should park the controller")
	}
	for _, ev := range Events() {
		if err := c.Handle(ev); err != nil {
			t.Errorf("Handle(%s) while parked error = %v", ev, err)
		}
	}
	if len(clip.writes) != 0 {
		t.Errorf("parked controller wrote %v", clip.writes)
	}
	if _, ok := c.State().Current(); ok {
		t.Error("Current() should report nothing while parked")
	}
}

func TestControllerClampsInconsistentIndex(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestController(twoItemCatalog(), clip)
	c.index = 7

	if err := c.Handle(CopyName); err != nil {
		t.Fatalf("CopyName error = %v", err)
	}
	if clip.last() != "Item C" {
		t.Errorf("clipboard = %q, want the last item", clip.last())
	}

	c.index = -3
	_ = c.Handle(MoveUp)
	if c.State().Index != 0 {
		t.Errorf("index = %d, want 0", c.State().Index)
	}
}

func TestControllerReplaceFollowsSelectedItem(t *testing.T) {
	c := newTestController(twoItemCatalog(), &fakeClipboard{})
	_ = c.Handle(MoveDown) // Item C

	rebuilt := tarkov.NewCatalog([]tarkov.RawItemRecord{
		record("Item D", 10, 1000, "Prapor"),
		record("Item A", 100, 150, "Trader1"),
		record("Item C", 50, 40, "Trader3"),
	}, tarkov.DefaultMarketVendor)
	c.Replace(rebuilt)

	if item, _ := c.State().Current(); item.Name != "Item C" || c.State().Index != 2 {
		t.Errorf("selection = %q at %d, want Item C at 2", item.Name, c.State().Index)
	}

	c.Replace(tarkov.NewCatalog([]tarkov.RawItemRecord{record("Item Z", 1, 2, "Fence")}, tarkov.DefaultMarketVendor))
	if c.State().Index != 0 {
		t.Errorf("index = %d after selected item vanished, want 0", c.State().Index)
	}

	c.Replace(tarkov.Catalog{})
	if !c.State().Parked {
		t.Error("empty snapshot should park the controller")
	}
}

func TestControllerObservers(t *testing.T) {
	c := newTestController(twoItemCatalog(), &fakeClipboard{})

	var seen []int
	c.Subscribe(func(s State) { seen = append(seen, s.Index) })

	_ = c.Handle(MoveDown)
	_ = c.Handle(MoveDown) // at the end, no change
	_ = c.Handle(CopyName) // copies do not notify
	_ = c.Handle(MoveUp)

	want := []int{0, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer saw %v, want %v", seen, want)
		}
	}
}

func TestControllerRunAppliesEventsInOrder(t *testing.T) {
	catalog := tarkov.NewCatalog([]tarkov.RawItemRecord{
		record("1", 1, 50, "Prapor"),
		record("2", 1, 40, "Prapor"),
		record("3", 1, 30, "Prapor"),
		record("4", 1, 20, "Prapor"),
	}, tarkov.DefaultMarketVendor)
	clip := &fakeClipboard{}
	c := newTestController(catalog, clip)

	events := make(chan Event, 16)
	for _, ev := range []Event{MoveDown, MoveDown, CopyName, MoveUp, CopyName, MoveDown, MoveDown, MoveDown, CopyVendorPrice} {
		events <- ev
	}
	close(events)

	if err := c.Run(context.Background(), events); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"3", "2", "20"}
	if len(clip.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", clip.writes, want)
	}
	for i := range want {
		if clip.writes[i] != want[i] {
			t.Fatalf("writes = %v, want %v", clip.writes, want)
		}
	}
}

func TestControllerRunReportsErrorsAndContinues(t *testing.T) {
	c := newTestController(twoItemCatalog(), &fakeClipboard{err: errors.New("locked")})

	var errs []error
	c.OnError(func(err error) { errs = append(errs, err) })

	events := make(chan Event, 4)
	events <- CopyName
	events <- MoveDown
	close(events)

	if err := c.Run(context.Background(), events); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if c.State().Index != 1 {
		t.Errorf("index = %d, want 1 after the failed copy", c.State().Index)
	}
}

func TestControllerRunAppliesPublishedSnapshots(t *testing.T) {
	c := newTestController(tarkov.Catalog{}, &fakeClipboard{})

	applied := make(chan State, 4)
	c.Subscribe(func(s State) { applied <- s })
	<-applied // initial state

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, events) }()

	c.Publish(twoItemCatalog())

	select {
	case s := <-applied:
		if s.Parked || s.Catalog.Len() != 2 {
			t.Errorf("applied state = %+v", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not applied")
	}

	events <- MoveDown
	select {
	case s := <-applied:
		if s.Index != 1 {
			t.Errorf("index = %d, want 1", s.Index)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not applied")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestPublishKeepsLatestSnapshot(t *testing.T) {
	c := newTestController(tarkov.Catalog{}, &fakeClipboard{})

	c.Publish(tarkov.Catalog{})
	c.Publish(twoItemCatalog())

	select {
	case got := <-c.snapshots:
		if got.Len() != 2 {
			t.Errorf("pending snapshot has %d items, want the latest (2)", got.Len())
		}
	default:
		t.Fatal("no snapshot pending")
	}
}

func TestParseEvent(t *testing.T) {
	for _, ev := range Events() {
		if got := ParseEvent(ev.String()); got != ev {
			t.Errorf("ParseEvent(%q) = %v, want %v", ev.String(), got, ev)
		}
	}
	if ParseEvent("jump") != Unknown {
		t.Error("unknown names should parse to Unknown")
	}
}
