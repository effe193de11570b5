package models

import (
	"bytes"
	"encoding/json"
)

// Optional representa un campo que la API puede omitir o enviar como null
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some construye un Optional con valor
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None construye un Optional vacío
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get devuelve el valor y si está presente
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// OrElse devuelve el valor o el valor por defecto indicado
func (o Optional[T]) OrElse(def T) T {
	if !o.Valid {
		return def
	}
	return o.Value
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Optional[T]{Value: v, Valid: true}
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
