package domain

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a patch field was supplied. A JSON null is treated
// the same as an absent field: the stored value is left alone.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value, o.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
