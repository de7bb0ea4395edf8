package utils

// Filter keeps the items predicate accepts, in order. The result is never nil.
func Filter[T any](items []T, predicate func(T) bool) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if predicate(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func Map[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
