package option

import "encoding/json"

// Option holds a value that may be absent. The zero value is None.
type Option[T any] struct {
	value  T
	isSome bool
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func Some[T any](value T) Option[T] {
	return Option[T]{value: value, isSome: true}
}

func (x Option[T]) IsSome() bool {
	return x.isSome
}

func (x Option[T]) IsNone() bool {
	return !x.isSome
}

func (x Option[T]) Get() T {
	if !x.isSome {
		panic("option is none")
	}
	return x.value
}

func (x Option[T]) GetOr(fallback T) T {
	if !x.isSome {
		return fallback
	}
	return x.value
}

// NonEmpty maps the empty string to None.
func NonEmpty(s string) Option[string] {
	if len(s) == 0 {
		return None[string]()
	}
	return Some(s)
}

func (x Option[T]) MarshalJSON() ([]byte, error) {
	if !x.isSome {
		return []byte("null"), nil
	}
	return json.Marshal(x.value)
}

func (x *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*x = None[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*x = Some(v)
	return nil
}
