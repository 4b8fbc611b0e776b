package store

import "fmt"

// Handoff is the policy applied to a session's guest collection when the
// session signs in. Replace discards the guest data and keeps only what the
// user already had; Merge folds the guest items into the user's collection.
type Handoff string

const (
	HandoffReplace Handoff = "replace"
	HandoffMerge   Handoff = "merge"
)

func ParseHandoff(name string) (Handoff, error) {
	switch Handoff(name) {
	case "", HandoffReplace:
		return HandoffReplace, nil
	case HandoffMerge:
		return HandoffMerge, nil
	}
	return "", fmt.Errorf("unknown handoff policy %q", name)
}

// apply returns the collection the user starts with and whether the guest
// items were folded into it
func apply[T any](policy Handoff, guest, user []T, key func(T) int, combine func(existing, incoming T) T) ([]T, bool) {
	if policy != HandoffMerge || len(guest) == 0 {
		return user, false
	}

	merged := clone(user)
	index := make(map[int]int, len(merged))
	for i, item := range merged {
		index[key(item)] = i
	}
	for _, item := range guest {
		if i, ok := index[key(item)]; ok {
			merged[i] = combine(merged[i], item)
			continue
		}
		index[key(item)] = len(merged)
		merged = append(merged, item)
	}
	return merged, true
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
