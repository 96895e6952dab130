// Package patch modela campos de actualización parcial.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field distingue "no enviado" (Set=false) de "enviado" y de "enviado como
// null" (Null=true). Reemplaza los wrappers por campo tipo patchBirthDate.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

func Of[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

// HasValue: enviado y no null.
func (f Field[T]) HasValue() bool { return f.Set && !f.Null }

// Apply copia el valor en dst si vino con valor. Un null se ignora.
func (f Field[T]) Apply(dst *T) {
	if f.HasValue() {
		*dst = f.Value
	}
}

// ApplyNullable: null limpia, valor reemplaza, ausente no toca.
func (f Field[T]) ApplyNullable(dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

// Map convierte el valor conservando Set/Null.
func Map[T, U any](f Field[T], fn func(T) U) Field[U] {
	out := Field[U]{Set: f.Set, Null: f.Null}
	if f.HasValue() {
		out.Value = fn(f.Value)
	}
	return out
}
