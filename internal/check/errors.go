package check

import "fmt"

// NotFoundError is returned when a selector resolves to zero cache matches.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("expected a single %s but found none", e.What)
}

// AmbiguousError is returned when a selector resolves to more than one
// cache match. For hashes this signals cache corruption, since the hash
// is supposed to identify exactly one row.
type AmbiguousError struct {
	What  string
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("expected a single %s but found %d occurrences", e.What, e.Count)
}

// singleItem enforces the "collection expected to hold exactly one item"
// invariant shared by hash, number and range resolution.
func singleItem[T any](what string, items []T) (T, error) {
	var zero T
	switch len(items) {
	case 1:
		return items[0], nil
	case 0:
		return zero, &NotFoundError{What: what}
	default:
		return zero, &AmbiguousError{What: what, Count: len(items)}
	}
}
