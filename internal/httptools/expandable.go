package httptools

import "encoding/json"

// Expandable is a response field rendered only when the client asked for
// it. The zero value is dropped by omitzero; Null renders an explicit null.
type Expandable[T any] struct {
	value    T
	expanded bool
	null     bool
}

func Set[T any](v T) Expandable[T] {
	return Expandable[T]{value: v, expanded: true}
}

func Null[T any]() Expandable[T] {
	return Expandable[T]{expanded: true, null: true}
}

func (e Expandable[T]) IsZero() bool {
	return !e.expanded
}

// Get returns the value and whether the field was expanded with one.
func (e Expandable[T]) Get() (T, bool) {
	return e.value, e.expanded && !e.null
}

func (e Expandable[T]) MarshalJSON() ([]byte, error) {
	if e.null {
		return []byte("null"), nil
	}
	return json.Marshal(e.value)
}
