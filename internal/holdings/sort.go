package holdings

import (
	"sort"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"
)

// Ordering compares two holdings: negative when a sorts first, zero on a tie.
type Ordering func(a, b entity.Holding) int

// ByOwnership puts preferred libraries first, shared libraries next.
func ByOwnership(libs config.Libraries) Ordering {
	return func(a, b entity.Holding) int {
		return libs.Rank(a.LibraryCode) - libs.Rank(b.LibraryCode)
	}
}

// ByAvailability puts holdings with an item on the shelf first.
func ByAvailability() Ordering {
	return func(a, b entity.Holding) int {
		return rankBool(a.Available()) - rankBool(b.Available())
	}
}

// ByElectronic puts electronic holdings first or last.
func ByElectronic(first bool) Ordering {
	return func(a, b entity.Holding) int {
		c := rankBool(a.Electronic) - rankBool(b.Electronic)
		if !first {
			return -c
		}
		return c
	}
}

// SortHoldings sorts in place, stably. The first ordering is the primary key.
func SortHoldings(hs []entity.Holding, orderings ...Ordering) {
	sort.SliceStable(hs, func(i, j int) bool {
		for _, o := range orderings {
			if c := o(hs[i], hs[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// SortItems puts available items first, stably.
func SortItems(items []entity.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Available() && !items[j].Available()
	})
}

func rankBool(b bool) int {
	if b {
		return 0
	}
	return 1
}
