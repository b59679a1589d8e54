package ledger

// UpsertFront replaces the entry with e.ID in place, or prepends e when no
// entry has that id. The result is approximately sorted (occurredAt DESC)
// with exact membership; no re-sort is performed. items is not modified.
func UpsertFront(items []Entry, e Entry) []Entry {
	for i := range items {
		if items[i].ID == e.ID {
			out := make([]Entry, len(items))
			copy(out, items)
			out[i] = e
			return out
		}
	}

	out := make([]Entry, 0, len(items)+1)
	out = append(out, e)
	return append(out, items...)
}

// RemoveByID returns items without any entry carrying id. items is not modified.
func RemoveByID(items []Entry, id string) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// MergeByID appends page to items keyed by id: an id already present is
// replaced at its existing position, new ids are appended in page order.
func MergeByID(items []Entry, page []Entry) []Entry {
	index := make(map[string]int, len(items)+len(page))
	out := make([]Entry, 0, len(items)+len(page))
	for _, e := range append(append([]Entry{}, items...), page...) {
		if i, ok := index[e.ID]; ok {
			out[i] = e
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}

// Clone returns a copy of items that shares no backing array with it.
func Clone(items []Entry) []Entry {
	if items == nil {
		return nil
	}
	out := make([]Entry, len(items))
	copy(out, items)
	return out
}

// FindByID returns the entry with id, if present.
func FindByID(items []Entry, id string) (Entry, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Entry{}, false
}
