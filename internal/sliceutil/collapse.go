// Package sliceutil provides generic slice manipulation utilities.
package sliceutil

// Collapse merges items that share a key. Each key keeps the position of
// its first occurrence and the value of its last one.
//
// Example:
//
//	events := []Event{{"quantity", 2}, {"sheet_size", "22x12"}, {"quantity", 5}}
//	sliceutil.Collapse(events, func(e Event) string { return e.Name })
//	// Result: [{"quantity", 5}, {"sheet_size", "22x12"}]
func Collapse[T any, K comparable](items []T, keyFunc func(T) K) []T {
	if len(items) == 0 {
		return items
	}

	index := make(map[K]int, len(items))
	result := make([]T, 0, len(items))

	for _, item := range items {
		key := keyFunc(item)
		if i, seen := index[key]; seen {
			result[i] = item
			continue
		}
		index[key] = len(result)
		result = append(result, item)
	}

	return result
}
