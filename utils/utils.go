package utils

func Ptr[T any](v T) *T {
	return &v
}

// Find returns a pointer into items, or nil when nothing matches.
func Find[T any](items []T, predicate func(T) bool) *T {
	for i := range items {
		if predicate(items[i]) {
			return &items[i]
		}
	}
	return nil
}
