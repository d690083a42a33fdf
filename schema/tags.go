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

package schema

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/keys"
)

const (
	// TagName marks key fields and aggregate bindings:
	//
	//	ID    string `agg:"key"`              // key, order 0
	//	Shard int    `agg:"key:1"`            // key, order 1
	//	Price int    `agg:"sum:total,avg:mean,count"`
	TagName = "agg"
	// KindTagName overrides the inferred input kind of a tagged field:
	//
	//	Letter rune `agg:"distinct:letters" aggkind:"char"`
	KindTagName = "aggkind"

	keyItem = "key"
)

var errNilRecord = errors.New("nil record")

// FromTags derives a Definition from the struct tags of t (a struct or a
// pointer to one). Embedded structs without an agg tag are walked, so a record
// type can reuse the keys and bindings of the types it embeds.
func FromTags(t reflect.Type) (Definition, error) {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return Definition{}, schemaError(t, "not a struct and no definition was registered")
	}
	var def Definition
	if err := walkFields(t, base, nil, &def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func walkFields(root, t reflect.Type, parent []int, def *Definition) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := make([]int, len(parent)+1)
		copy(index, parent)
		index[len(parent)] = i

		tag, tagged := f.Tag.Lookup(TagName)
		if !tagged {
			if f.Anonymous {
				if et := embeddedStruct(f.Type); et != nil {
					if err := walkFields(root, et, index, def); err != nil {
						return err
					}
				}
			}
			continue
		}
		if !f.IsExported() {
			return schemaError(root, "tagged field %s is not exported", f.Name)
		}
		if err := parseFieldTag(root, f, index, tag, def); err != nil {
			return err
		}
	}
	return nil
}

func embeddedStruct(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		return t
	}
	return nil
}

func parseFieldTag(root reflect.Type, f reflect.StructField, index []int, tag string, def *Definition) error {
	get := fieldGetter(index)
	kind := inferKind(f.Type)
	if ks, ok := f.Tag.Lookup(KindTagName); ok {
		k, err := aggregator.ParseKind(ks)
		if err != nil {
			return schemaError(root, "field %s: %v", f.Name, err)
		}
		if !kindFits(f.Type, k) {
			return schemaError(root, "field %s of type %s cannot be read as %s", f.Name, f.Type, k)
		}
		kind = k
	}

	if strings.TrimSpace(tag) == "" {
		return schemaError(root, "field %s has an empty %s tag", f.Name, TagName)
	}
	for _, item := range strings.Split(tag, ",") {
		item = strings.TrimSpace(item)
		name, arg, _ := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		arg = strings.TrimSpace(arg)
		if name == "" {
			return schemaError(root, "field %s: malformed tag item %q", f.Name, item)
		}

		if name == keyItem {
			order := 0
			if arg != "" {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return schemaError(root, "field %s: key order %q is not an integer", f.Name, arg)
				}
				order = n
			}
			if err := keys.CheckType(f.Type); err != nil {
				return schemaError(root, "key field %s: %v", f.Name, err)
			}
			def.Keys = append(def.Keys, KeyDef{Name: f.Name, Order: order, Get: get})
			continue
		}

		def.Aggregates = append(def.Aggregates, AggregateDef{
			Field:    f.Name,
			Function: name,
			Alias:    arg,
			Kind:     kind,
			Get:      get,
		})
	}
	return nil
}

// fieldGetter reads a field by index from a struct or a pointer to one.
func fieldGetter(index []int) Getter {
	if len(index) == 1 {
		i := index[0]
		return func(record interface{}) (interface{}, error) {
			v, err := structValue(record)
			if err != nil {
				return nil, err
			}
			return v.Field(i).Interface(), nil
		}
	}
	return func(record interface{}) (interface{}, error) {
		v, err := structValue(record)
		if err != nil {
			return nil, err
		}
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			return nil, err
		}
		return f.Interface(), nil
	}
}

func structValue(record interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, errNilRecord
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("record is not a struct")
	}
	return v, nil
}

func inferKind(t reflect.Type) aggregator.Kind {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return aggregator.KindNumeric
	case reflect.Bool:
		return aggregator.KindBool
	default:
		return aggregator.KindObject
	}
}

// kindFits reports whether a field of type t can be declared with kind k.
func kindFits(t reflect.Type, k aggregator.Kind) bool {
	switch k {
	case aggregator.KindNumeric:
		return inferKind(t) == aggregator.KindNumeric || t.Kind() == reflect.String
	case aggregator.KindBool:
		return t.Kind() == reflect.Bool
	case aggregator.KindChar:
		switch t.Kind() {
		case reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Int, reflect.Int64, reflect.Uint32:
			return true
		}
		return false
	case aggregator.KindObject:
		return true
	}
	return false
}
