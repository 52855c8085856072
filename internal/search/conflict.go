package search

import (
	"context"
	"sort"
	"time"
)

// OrderPredicate selects orders overlapping a stay window. A nil bound is not applied.
//
//	both dates: begin_date <= end AND end_date >= start
//	start only: end_date >= start
//	end only:   begin_date <= end
//
// Boundary days count as overlap: a checkout day cannot be booked as a checkin day.
type OrderPredicate struct {
	BeginOnOrBefore *time.Time
	EndOnOrAfter    *time.Time
}

// OverlapPredicate builds the order predicate for r. It reports false when r has
// no dates, in which case nothing is excluded.
func OverlapPredicate(r DateRange) (OrderPredicate, bool) {
	switch {
	case r.Start != nil && r.End != nil:
		return OrderPredicate{BeginOnOrBefore: r.End, EndOnOrAfter: r.Start}, true
	case r.Start != nil:
		return OrderPredicate{EndOnOrAfter: r.Start}, true
	case r.End != nil:
		return OrderPredicate{BeginOnOrBefore: r.End}, true
	default:
		return OrderPredicate{}, false
	}
}

// Matches reports whether an order spanning [begin, end] satisfies the predicate.
func (p OrderPredicate) Matches(begin, end time.Time) bool {
	if p.BeginOnOrBefore != nil && begin.After(*p.BeginOnOrBefore) {
		return false
	}
	if p.EndOnOrAfter != nil && end.Before(*p.EndOnOrAfter) {
		return false
	}
	return true
}

// OrderFinder lists the house ids of orders matching a predicate.
type OrderFinder interface {
	FindOrderHouseIDs(ctx context.Context, predicate OrderPredicate) ([]uint, error)
}

// ConflictingHouses returns the sorted, de-duplicated ids of houses booked during r.
// The finder is not consulted when r has no dates.
func ConflictingHouses(ctx context.Context, finder OrderFinder, r DateRange) ([]uint, error) {
	predicate, ok := OverlapPredicate(r)
	if !ok {
		return nil, nil
	}

	ids, err := finder.FindOrderHouseIDs(ctx, predicate)
	if err != nil {
		return nil, err
	}
	return uniqueSorted(ids), nil
}

func uniqueSorted(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
