package tarkov

import (
	"encoding/json"
	"math"
)

// VendorOffer is one (vendor, sell price) pair from an item's sellFor list
type VendorOffer struct {
	VendorName string
	Price      int
}

// RawItemRecord is one item as reported by the data source, before ranking.
// Low24hPrice is nil when the field was absent or not a usable number.
type RawItemRecord struct {
	Name        string
	ShortName   string
	SellFor     []VendorOffer
	Low24hPrice *int
}

// graphQLRequest is the POST body sent to the GraphQL endpoint
type graphQLRequest struct {
	Query string `json:"query"`
}

// itemsResponse matches { data: { items: [...] }, errors: [...] }
type itemsResponse struct {
	Data   *itemsData     `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type itemsData struct {
	Items *[]itemNode `json:"items"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// itemNode keeps low24hPrice raw; it is optional and decoded per item so a
// bad value cannot fail the whole response.
type itemNode struct {
	Name        string          `json:"name"`
	ShortName   string          `json:"shortName"`
	Low24hPrice json.RawMessage `json:"low24hPrice"`
	SellFor     []sellForNode   `json:"sellFor"`
}

type sellForNode struct {
	Vendor struct {
		Name string `json:"name"`
	} `json:"vendor"`
	PriceRUB int `json:"priceRUB"`
}

// toRecord converts the wire node into a transport-free record
func (n itemNode) toRecord() RawItemRecord {
	record := RawItemRecord{
		Name:        n.Name,
		ShortName:   n.ShortName,
		SellFor:     make([]VendorOffer, 0, len(n.SellFor)),
		Low24hPrice: parseOptionalPrice(n.Low24hPrice),
	}
	for _, sf := range n.SellFor {
		record.SellFor = append(record.SellFor, VendorOffer{
			VendorName: sf.Vendor.Name,
			Price:      sf.PriceRUB,
		})
	}
	return record
}

// parseOptionalPrice reads a best-effort integer price. Fractions are
// truncated; null, strings, negatives and out-of-range values give nil.
func parseOptionalPrice(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if f < 0 || f > math.MaxInt32 {
		return nil
	}
	price := int(f)
	return &price
}
