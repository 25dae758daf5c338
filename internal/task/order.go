package task

import "time"

// Chronological is implemented by task shapes that can be placed in time
// order and pinned to an explicit start.
type Chronological[T any] interface {
	OrderKey() string
	OrderTime() time.Time
	PinnedAt(at time.Time) T
}

// FindChronologicalPosition returns the index the item identified by id would
// occupy among all other items if placed by at. Items already at exactly at
// stay after it. If at is later than every other item, the result is the
// number of other items.
func FindChronologicalPosition[T Chronological[T]](items []T, id string, at time.Time) int {
	pos := 0
	for _, item := range items {
		if item.OrderKey() == id {
			continue
		}
		if !item.OrderTime().Before(at) {
			return pos
		}
		pos++
	}
	return pos
}

// ReorderChronologically pins the item identified by id to at and moves it to
// its chronological position. The result is a new slice; items is not
// modified. When id is not present, items itself is returned.
func ReorderChronologically[T Chronological[T]](items []T, id string, at time.Time) []T {
	idx := -1
	for i, item := range items {
		if item.OrderKey() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}

	pinned := items[idx].PinnedAt(at)

	rest := make([]T, 0, len(items))
	rest = append(rest, items[:idx]...)
	rest = append(rest, items[idx+1:]...)

	pos := FindChronologicalPosition(rest, id, at)

	out := make([]T, 0, len(items))
	out = append(out, rest[:pos]...)
	out = append(out, pinned)
	out = append(out, rest[pos:]...)
	return out
}
