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
	"fmt"
	"reflect"

	"github.com/rulego/groupagg/aggregator"
)

// KeyExtractor extracts one position of the group key.
type KeyExtractor struct {
	Name  string
	Order int
	get   Getter
}

// Extract returns the key value of record.
func (k *KeyExtractor) Extract(record interface{}) (interface{}, error) {
	v, err := k.get(record)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", k.Name, err)
	}
	return v, nil
}

// Binding ties a value extractor to an aggregator template under an alias.
type Binding struct {
	Field    string
	Alias    string
	Kind     aggregator.Kind
	Template aggregator.AggregatorFunction
	get      Getter
}

// Extract returns the bound value of record, converted to the declared kind.
func (b *Binding) Extract(record interface{}) (aggregator.Value, error) {
	raw, err := b.get(record)
	if err != nil {
		return aggregator.Value{}, fmt.Errorf("field %s: %w", b.Field, err)
	}
	v, err := aggregator.Convert(b.Kind, raw)
	if err != nil {
		return aggregator.Value{}, fmt.Errorf("field %s: %w", b.Field, err)
	}
	return v, nil
}

// Descriptor is the resolved, immutable schema of one record type.
type Descriptor struct {
	Type     reflect.Type
	Keys     []KeyExtractor
	Bindings []Binding
}

// Aliases returns the output aliases in binding order.
func (d *Descriptor) Aliases() []string {
	out := make([]string, len(d.Bindings))
	for i := range d.Bindings {
		out[i] = d.Bindings[i].Alias
	}
	return out
}

// Binding returns the binding exposed under alias.
func (d *Descriptor) Binding(alias string) (*Binding, bool) {
	for i := range d.Bindings {
		if d.Bindings[i].Alias == alias {
			return &d.Bindings[i], true
		}
	}
	return nil, false
}

// AppendKey appends the key values of record to dst in key order.
func (d *Descriptor) AppendKey(dst []interface{}, record interface{}) ([]interface{}, error) {
	for i := range d.Keys {
		v, err := d.Keys[i].Extract(record)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}
