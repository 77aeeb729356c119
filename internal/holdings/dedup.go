package holdings

import "bibresolver/internal/entity"

// DedupItems keeps one entry per ItemID: the one with the later status
// date. A nil date loses to any date. When both dates are nil, or equal,
// the earlier-encountered entry is discarded. Survivors keep the position
// where their id was first seen.
func DedupItems(items []entity.Item) []entity.Item {
	if len(items) < 2 {
		return items
	}
	out := make([]entity.Item, 0, len(items))
	at := make(map[string]int, len(items))
	for _, it := range items {
		i, seen := at[it.ItemID]
		if !seen {
			at[it.ItemID] = len(out)
			out = append(out, it)
			continue
		}
		if newer(it, out[i]) {
			out[i] = it
		}
	}
	return out
}

func newer(candidate, current entity.Item) bool {
	switch {
	case candidate.StatusDate == nil:
		return current.StatusDate == nil
	case current.StatusDate == nil:
		return true
	default:
		return !candidate.StatusDate.Before(*current.StatusDate)
	}
}
