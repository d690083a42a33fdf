/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package keys encodes group key tuples into canonical byte strings.
//
// Two values produce the same encoding exactly when they are deep-equal in the
// sense of reflect.DeepEqual, with two deliberate exceptions: every NaN is
// equal to every other NaN and -0 equals +0. The encoding is self-delimiting,
// so the concatenation of several encoded values is itself unambiguous and can
// be used directly as a map key for a composite key.
package keys

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// MaxDepth bounds the nesting of composite key values. It also stops pointer
// cycles from recursing forever.
const MaxDepth = 64

// ErrUnsupported is returned for values that have no structural identity,
// such as non-nil funcs, or for values nested deeper than MaxDepth.
var ErrUnsupported = errors.New("unsupported key value")

// Fixed type ids for predeclared types so the fast path in Append can emit them
// without a map lookup. 0 means nil.
const (
	idNil = iota
	idBool
	idInt
	idInt8
	idInt16
	idInt32
	idInt64
	idUint
	idUint8
	idUint16
	idUint32
	idUint64
	idUintptr
	idFloat32
	idFloat64
	idComplex64
	idComplex128
	idString
	firstDynamicID
)

var predeclared = map[reflect.Type]uint64{
	reflect.TypeOf(false):         idBool,
	reflect.TypeOf(int(0)):        idInt,
	reflect.TypeOf(int8(0)):       idInt8,
	reflect.TypeOf(int16(0)):      idInt16,
	reflect.TypeOf(int32(0)):      idInt32,
	reflect.TypeOf(int64(0)):      idInt64,
	reflect.TypeOf(uint(0)):       idUint,
	reflect.TypeOf(uint8(0)):      idUint8,
	reflect.TypeOf(uint16(0)):     idUint16,
	reflect.TypeOf(uint32(0)):     idUint32,
	reflect.TypeOf(uint64(0)):     idUint64,
	reflect.TypeOf(uintptr(0)):    idUintptr,
	reflect.TypeOf(float32(0)):    idFloat32,
	reflect.TypeOf(float64(0)):    idFloat64,
	reflect.TypeOf(complex64(0)):  idComplex64,
	reflect.TypeOf(complex128(0)): idComplex128,
	reflect.TypeOf(""):            idString,
}

// Encoder appends canonical encodings of values to byte slices.
//
// Type identity is part of the encoding: int(1) and int64(1) differ, as do two
// named types with the same underlying type. Ids for non-predeclared types are
// assigned on first sight, so encodings are only comparable between values
// produced by the same Encoder. An Encoder is not safe for concurrent use.
type Encoder struct {
	types   map[reflect.Type]uint64
	next    uint64
	mutable map[reflect.Type]bool
}

// NewEncoder creates an encoder with the predeclared types already interned.
func NewEncoder() *Encoder {
	e := &Encoder{
		types:   make(map[reflect.Type]uint64, len(predeclared)+8),
		next:    firstDynamicID,
		mutable: make(map[reflect.Type]bool),
	}
	for t, id := range predeclared {
		e.types[t] = id
	}
	return e
}

// Append appends the encoding of v to dst and returns the extended slice.
func (e *Encoder) Append(dst []byte, v interface{}) ([]byte, error) {
	// fast path for the usual key types
	switch x := v.(type) {
	case nil:
		return append(dst, idNil), nil
	case string:
		return appendString(append(dst, idString), x), nil
	case int:
		return binary.AppendVarint(append(dst, idInt), int64(x)), nil
	case int64:
		return binary.AppendVarint(append(dst, idInt64), x), nil
	case int32:
		return binary.AppendVarint(append(dst, idInt32), int64(x)), nil
	case uint64:
		return binary.AppendUvarint(append(dst, idUint64), x), nil
	case bool:
		return appendBool(append(dst, idBool), x), nil
	case float64:
		return appendFloat(append(dst, idFloat64), x), nil
	}
	return e.appendInterface(dst, reflect.ValueOf(v), 0)
}

// AppendTuple appends the encoding of an ordered tuple of values.
func (e *Encoder) AppendTuple(dst []byte, values []interface{}) ([]byte, error) {
	var err error
	dst = binary.AppendUvarint(dst, uint64(len(values)))
	for i, v := range values {
		if dst, err = e.Append(dst, v); err != nil {
			return dst, fmt.Errorf("key position %d: %w", i, err)
		}
	}
	return dst, nil
}

func (e *Encoder) typeID(t reflect.Type) uint64 {
	if id, ok := e.types[t]; ok {
		return id
	}
	id := e.next
	e.next++
	e.types[t] = id
	return id
}

func (e *Encoder) appendInterface(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	if !v.IsValid() {
		return append(dst, idNil), nil
	}
	dst = binary.AppendUvarint(dst, e.typeID(v.Type()))
	return e.appendPayload(dst, v, depth)
}

func (e *Encoder) appendPayload(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	if depth > MaxDepth {
		return dst, fmt.Errorf("%w: nested deeper than %d levels", ErrUnsupported, MaxDepth)
	}
	var err error
	switch v.Kind() {
	case reflect.Bool:
		return appendBool(dst, v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.AppendVarint(dst, v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.AppendUvarint(dst, v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return appendFloat(dst, v.Float()), nil
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return appendFloat(appendFloat(dst, real(c)), imag(c)), nil
	case reflect.String:
		return appendString(dst, v.String()), nil
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if dst, err = e.appendPayload(dst, v.Index(i), depth+1); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case reflect.Slice:
		// nil and empty slices are not deep-equal
		if v.IsNil() {
			return append(dst, 0), nil
		}
		dst = binary.AppendUvarint(append(dst, 1), uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			if dst, err = e.appendPayload(dst, v.Index(i), depth+1); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case reflect.Map:
		if v.IsNil() {
			return append(dst, 0), nil
		}
		return e.appendMap(binary.AppendUvarint(append(dst, 1), uint64(v.Len())), v, depth)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if dst, err = e.appendPayload(dst, v.Field(i), depth+1); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case reflect.Pointer:
		if v.IsNil() {
			return append(dst, 0), nil
		}
		return e.appendPayload(append(dst, 1), v.Elem(), depth+1)
	case reflect.Interface:
		return e.appendInterface(dst, v.Elem(), depth+1)
	case reflect.Chan, reflect.UnsafePointer:
		return binary.AppendUvarint(dst, uint64(v.Pointer())), nil
	case reflect.Func:
		if v.IsNil() {
			return append(dst, 0), nil
		}
		return dst, fmt.Errorf("%w: non-nil %s", ErrUnsupported, v.Type())
	default:
		return dst, fmt.Errorf("%w: kind %s", ErrUnsupported, v.Kind())
	}
}

// appendMap writes entries sorted by their encoding so that iteration order
// does not leak into the key.
func (e *Encoder) appendMap(dst []byte, v reflect.Value, depth int) ([]byte, error) {
	entries := make([][]byte, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entry, err := e.appendPayload(nil, iter.Key(), depth+1)
		if err != nil {
			return dst, err
		}
		if entry, err = e.appendPayload(entry, iter.Value(), depth+1); err != nil {
			return dst, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i], entries[j]) < 0
	})
	for _, entry := range entries {
		dst = append(dst, entry...)
	}
	return dst, nil
}

// CheckType reports whether values of type t can ever be used as key values.
// Only func types are rejected statically; other failures surface at encode time.
func CheckType(t reflect.Type) error {
	if t != nil && t.Kind() == reflect.Func {
		return fmt.Errorf("%w: %s has no structural identity", ErrUnsupported, t)
	}
	return nil
}

func appendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func appendFloat(dst []byte, f float64) []byte {
	if f == 0 {
		f = 0 // -0
	}
	bits := math.Float64bits(f)
	if math.IsNaN(f) {
		bits = 0x7ff8000000000001
	}
	return binary.BigEndian.AppendUint64(dst, bits)
}
