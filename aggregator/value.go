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

package aggregator

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Kind is a set of input kinds. An aggregator function advertises the kinds it
// accepts and every binding declares exactly one kind for its values.
type Kind uint8

const (
	// KindNumeric values carry a float64 payload.
	KindNumeric Kind = 1 << iota
	// KindBool values carry a bool payload.
	KindBool
	// KindChar values carry a rune payload.
	KindChar
	// KindObject values carry the raw field value only.
	KindObject
)

// KindAny accepts every input kind.
const KindAny = KindNumeric | KindBool | KindChar | KindObject

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindNumeric, "numeric"},
	{KindBool, "bool"},
	{KindChar, "char"},
	{KindObject, "object"},
}

// Has reports whether every kind in other is part of k.
func (k Kind) Has(other Kind) bool {
	return other != 0 && k&other == other
}

// String returns the kind names joined by '|'.
func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	var parts []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			parts = append(parts, kn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseKind parses a single kind name such as "numeric" or "char".
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, kn := range kindNames {
		if kn.name == name {
			return kn.kind, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Value is one input to an aggregator function, tagged with its declared kind.
// The raw field value is always kept so that functions like distinct can work
// on the original data.
type Value struct {
	kind Kind
	num  float64
	flag bool
	char rune
	raw  interface{}
}

// Float returns a numeric value.
func Float(f float64) Value {
	return Value{kind: KindNumeric, num: f, raw: f}
}

// Number converts raw into a numeric value, keeping raw as the original.
func Number(raw interface{}) (Value, error) {
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return Value{}, fmt.Errorf("cannot convert %v (%T) to a number: %w", raw, raw, err)
	}
	return Value{kind: KindNumeric, num: f, raw: raw}, nil
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b, raw: b}
}

// Char returns a character value.
func Char(r rune) Value {
	return Value{kind: KindChar, char: r, raw: r}
}

// Object returns an opaque value.
func Object(o interface{}) Value {
	return Value{kind: KindObject, raw: o}
}

// Convert builds a value of the given kind from a raw field value.
func Convert(kind Kind, raw interface{}) (Value, error) {
	switch kind {
	case KindNumeric:
		return Number(raw)
	case KindBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %v (%T) to bool: %w", raw, raw, err)
		}
		return Value{kind: KindBool, flag: b, raw: raw}, nil
	case KindChar:
		r, err := cast.ToInt32E(raw)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %v (%T) to char: %w", raw, raw, err)
		}
		return Value{kind: KindChar, char: r, raw: raw}, nil
	case KindObject:
		return Object(raw), nil
	default:
		return Value{}, fmt.Errorf("kind %s is not a single input kind", kind)
	}
}

// Kind returns the declared input kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric payload. It is 0 unless Kind is KindNumeric.
func (v Value) Float() float64 { return v.num }

// Bool returns the boolean payload. It is false unless Kind is KindBool.
func (v Value) Bool() bool { return v.flag }

// Char returns the character payload. It is 0 unless Kind is KindChar.
func (v Value) Char() rune { return v.char }

// Interface returns the raw field value the payload was converted from.
func (v Value) Interface() interface{} { return v.raw }
