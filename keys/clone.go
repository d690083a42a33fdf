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

package keys

import (
	"bytes"
	"reflect"

	"github.com/mitchellh/copystructure"
)

// Clone returns a deep copy of v that encodes identically to v, so a caller
// mutating v afterwards cannot change the copy. Values without slices, maps,
// pointers or interfaces are returned as is. So is v when no faithful copy
// exists: channels and unsafe pointers are identities, and unexported struct
// fields cannot be copied.
func (e *Encoder) Clone(v interface{}) interface{} {
	if v == nil || !e.isMutable(reflect.TypeOf(v)) {
		return v
	}
	want, err := e.Append(nil, v)
	if err != nil {
		return v
	}
	c, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	got, err := e.Append(nil, c)
	if err != nil || !bytes.Equal(want, got) {
		return v
	}
	return c
}

func (e *Encoder) isMutable(t reflect.Type) bool {
	if m, ok := e.mutable[t]; ok {
		return m
	}
	m := mutableType(t, make(map[reflect.Type]bool))
	e.mutable[t] = m
	return m
}

// mutableType reports whether values of t share memory when copied by value.
func mutableType(t reflect.Type, seen map[reflect.Type]bool) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return true
	case reflect.Array:
		return mutableType(t.Elem(), seen)
	case reflect.Struct:
		if seen[t] {
			return false
		}
		seen[t] = true
		for i := 0; i < t.NumField(); i++ {
			if mutableType(t.Field(i).Type, seen) {
				return true
			}
		}
	}
	return false
}
