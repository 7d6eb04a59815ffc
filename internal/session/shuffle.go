package session

import "math/rand/v2"

// Shuffle permutes items in place with Fisher-Yates, walking from the last
// element down to index 1 and swapping each with a uniform pick from [0, i].
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// draw removes and returns a uniformly chosen element of items.
// The caller guarantees items is non-empty. Removal is O(n), which is fine
// for pools of a few hundred questions.
func draw[T any](rng *rand.Rand, items []T) (T, []T) {
	i := rng.IntN(len(items))
	picked := items[i]
	items = append(items[:i], items[i+1:]...)
	return picked, items
}
