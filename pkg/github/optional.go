package github

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Optional holds a desired-state field that the caller may leave unset.
// An unset Optional means "no opinion": the diff engine keeps the remote
// value. A set Optional carries a value even when that value is the zero
// value, so false and "" are expressible.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional set to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether the caller provided a value.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value when set and fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Ptr returns a pointer to a copy of the value, or nil when unset. It maps
// directly onto go-github's pointer-typed request fields.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// optionalValue is implemented by every Optional instantiation; the diff
// engine uses it to inspect fields without knowing T.
type optionalValue interface {
	IsSet() bool
	anyValue() any
}

func (o Optional[T]) anyValue() any {
	return o.value
}

// UnmarshalYAML marks the field as set. yaml.v3 never calls it for absent
// keys or explicit nulls, which therefore stay unset.
func (o *Optional[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

// MarshalYAML writes the value, or null when unset.
func (o Optional[T]) MarshalYAML() (interface{}, error) {
	if !o.set {
		return nil, nil
	}
	return o.value, nil
}

// UnmarshalJSON marks the field as set unless the input is null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

// MarshalJSON writes the value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o Optional[T]) String() string {
	if !o.set {
		return "<unset>"
	}
	return fmt.Sprint(o.value)
}
