package mapfn

// ConvertSlice converts a slice of type T to a slice of type R using the provided function
func ConvertSlice[T any, R any](input []T, fn func(T) R) []R {
	result := make([]R, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

// FilterSlice filters a slice based on the provided predicate function
func FilterSlice[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// GroupBy buckets input by key, keeping the input order inside each bucket.
// The returned key slice lists keys in order of first appearance.
func GroupBy[T any, K comparable](input []T, key func(T) K) ([]K, map[K][]T) {
	groups := make(map[K][]T)
	keys := make([]K, 0)
	for _, v := range input {
		k := key(v)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], v)
	}
	return keys, groups
}
