package search

import "strings"

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortNew       SortKey = "new"
	SortBooking   SortKey = "booking"
	SortPriceInc  SortKey = "price-inc"
	SortPriceDesc SortKey = "price-desc"
)

// OrderRule is a single ORDER BY column.
type OrderRule struct {
	Column string
	Desc   bool
}

func (r OrderRule) String() string {
	if r.Desc {
		return r.Column + " desc"
	}
	return r.Column + " asc"
}

var defaultOrder = OrderRule{Column: "created_at", Desc: true}

var orderRules = map[SortKey]OrderRule{
	SortNew:       defaultOrder,
	SortBooking:   {Column: "order_count", Desc: true},
	SortPriceInc:  {Column: "price", Desc: false},
	SortPriceDesc: {Column: "price", Desc: true},
}

// ParseSortKey maps a raw value onto a known key. Unknown values map to SortNew.
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.TrimSpace(raw))
	if _, ok := orderRules[key]; ok {
		return key
	}
	return SortNew
}

// Rule returns the ordering for the key, newest first for unknown keys.
func (k SortKey) Rule() OrderRule {
	if rule, ok := orderRules[k]; ok {
		return rule
	}
	return defaultOrder
}
