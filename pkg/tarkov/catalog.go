package tarkov

import (
	"fmt"
	"sort"
)

// DefaultMarketVendor is the vendor name tarkov.dev uses for the flea market
const DefaultMarketVendor = "Flea Market"

// RankedItem is one item with its best trader offer and flea price.
// Values are copied out of a Catalog, so a RankedItem never changes
// the catalog it came from.
type RankedItem struct {
	Name           string
	ShortName      string
	BestVendorName string // never the market; "" when no trader buys the item
	MarketPrice    int    // 24h-low flea price, 0 when unknown
	VendorPrice    int    // best trader offer, 0 when none
}

// ProfitDelta is VendorPrice - MarketPrice. It is derived on every call,
// never stored, so it cannot drift from the prices.
func (r RankedItem) ProfitDelta() int {
	return r.VendorPrice - r.MarketPrice
}

// String is the list label shown for the item
func (r RankedItem) String() string {
	return fmt.Sprintf("%s :   %d (%s)", r.Name, r.ProfitDelta(), r.BestVendorName)
}

// RankItem turns a raw record into a RankedItem. The best vendor is the
// first non-market offer with the highest price, in source order.
func RankItem(record RawItemRecord, marketVendor string) RankedItem {
	item := RankedItem{
		Name:      record.Name,
		ShortName: record.ShortName,
	}

	for _, offer := range record.SellFor {
		if offer.VendorName == marketVendor {
			continue
		}
		if offer.Price > item.VendorPrice {
			item.VendorPrice = offer.Price
			item.BestVendorName = offer.VendorName
		}
	}

	if record.Low24hPrice != nil && *record.Low24hPrice > 0 {
		item.MarketPrice = *record.Low24hPrice
	}

	return item
}

// Catalog is an immutable sequence of RankedItems ordered by profit delta
// descending. It is safe to share between goroutines.
type Catalog struct {
	items []RankedItem
}

// NewCatalog ranks records: one RankedItem each, stable sort by profit delta
// descending, then every item without a market price is dropped.
func NewCatalog(records []RawItemRecord, marketVendor string) Catalog {
	ranked := make([]RankedItem, 0, len(records))
	for _, record := range records {
		ranked = append(ranked, RankItem(record, marketVendor))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProfitDelta() > ranked[j].ProfitDelta()
	})

	items := ranked[:0]
	for _, item := range ranked {
		if item.MarketPrice == 0 {
			continue
		}
		items = append(items, item)
	}

	return Catalog{items: items}
}

// Len returns the number of items
func (c Catalog) Len() int {
	return len(c.items)
}

// Empty reports whether the catalog has no items
func (c Catalog) Empty() bool {
	return len(c.items) == 0
}

// At returns the item at index i. It panics when i is out of range, like a
// slice index.
func (c Catalog) At(i int) RankedItem {
	return c.items[i]
}

// Items returns a copy of the ranked items
func (c Catalog) Items() []RankedItem {
	out := make([]RankedItem, len(c.items))
	copy(out, c.items)
	return out
}

// Labels returns the display label of every item, in order
func (c Catalog) Labels() []string {
	labels := make([]string, len(c.items))
	for i, item := range c.items {
		labels[i] = item.String()
	}
	return labels
}

// Index returns the position of the first item named name, or -1
func (c Catalog) Index(name string) int {
	for i, item := range c.items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Top returns at most n leading items; n <= 0 means all of them
func (c Catalog) Top(n int) []RankedItem {
	if n <= 0 || n > len(c.items) {
		n = len(c.items)
	}
	out := make([]RankedItem, n)
	copy(out, c.items[:n])
	return out
}
