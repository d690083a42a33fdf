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
	"reflect"
	"sort"

	"github.com/rulego/groupagg/aggregator"
)

var definerType = reflect.TypeOf((*Definer)(nil)).Elem()

// Resolver turns record types into Descriptors, once per type. A Resolver is
// not safe for concurrent use.
type Resolver struct {
	functions   Functions
	definitions map[reflect.Type]Definition
	cache       map[reflect.Type]*Descriptor
}

// NewResolver creates a resolver that looks functions up in functions.
func NewResolver(functions Functions) *Resolver {
	return &Resolver{
		functions:   functions,
		definitions: make(map[reflect.Type]Definition),
		cache:       make(map[reflect.Type]*Descriptor),
	}
}

// Define registers an explicit definition for t. It takes precedence over a
// Definer implementation and over struct tags, and must happen before t is
// first resolved.
func (r *Resolver) Define(t reflect.Type, def Definition) error {
	if t == nil {
		return schemaError(t, "cannot define the nil type")
	}
	if _, resolved := r.cache[t]; resolved {
		return schemaError(t, "type is already resolved")
	}
	r.definitions[t] = def
	return nil
}

// Cached returns the descriptor of t if it was resolved before.
func (r *Resolver) Cached(t reflect.Type) (*Descriptor, bool) {
	d, ok := r.cache[t]
	return d, ok
}

// Resolve returns the descriptor of t, building and caching it on first use.
// Failed resolutions are not cached.
func (r *Resolver) Resolve(t reflect.Type) (*Descriptor, error) {
	if d, ok := r.cache[t]; ok {
		return d, nil
	}
	if t == nil {
		return nil, schemaError(t, "cannot resolve the nil type")
	}
	def, err := r.definitionOf(t)
	if err != nil {
		return nil, err
	}
	d, err := r.build(t, def)
	if err != nil {
		return nil, err
	}
	r.cache[t] = d
	return d, nil
}

func (r *Resolver) definitionOf(t reflect.Type) (Definition, error) {
	if def, ok := r.definitions[t]; ok {
		return def, nil
	}
	if t.Implements(definerType) {
		// a non-nil zero value works for both receiver kinds
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(Definer).GroupDefinition(), nil
		}
		return reflect.Zero(t).Interface().(Definer).GroupDefinition(), nil
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(definerType) {
		return reflect.New(t).Interface().(Definer).GroupDefinition(), nil
	}
	return FromTags(t)
}

func (r *Resolver) build(t reflect.Type, def Definition) (*Descriptor, error) {
	d := &Descriptor{
		Type:     t,
		Keys:     make([]KeyExtractor, 0, len(def.Keys)),
		Bindings: make([]Binding, 0, len(def.Aggregates)),
	}

	for i, k := range def.Keys {
		if k.Get == nil {
			return nil, schemaError(t, "key %d (%s) has no getter", i, k.Name)
		}
		d.Keys = append(d.Keys, KeyExtractor{Name: k.Name, Order: k.Order, get: k.Get})
	}
	sort.SliceStable(d.Keys, func(i, j int) bool { return d.Keys[i].Order < d.Keys[j].Order })
	for i := 1; i < len(d.Keys); i++ {
		if d.Keys[i].Order == d.Keys[i-1].Order {
			return nil, schemaError(t, "keys %s and %s both declare order %d",
				d.Keys[i-1].Name, d.Keys[i].Name, d.Keys[i].Order)
		}
	}

	aliases := make(map[string]string, len(def.Aggregates))
	for _, a := range def.Aggregates {
		b, err := r.bind(t, a)
		if err != nil {
			return nil, err
		}
		if other, dup := aliases[b.Alias]; dup {
			return nil, schemaError(t, "alias %q is bound by both %s and %s", b.Alias, other, b.Field)
		}
		aliases[b.Alias] = b.Field
		d.Bindings = append(d.Bindings, b)
	}
	return d, nil
}

func (r *Resolver) bind(t reflect.Type, a AggregateDef) (Binding, error) {
	tmpl, ok := r.functions.Get(a.Function)
	if !ok {
		return Binding{}, schemaError(t, "field %s: unknown aggregator function %q", a.Field, a.Function)
	}
	if a.Kind == 0 {
		return Binding{}, schemaError(t, "field %s: no input kind declared for %s", a.Field, a.Function)
	}
	if a.Kind&(a.Kind-1) != 0 {
		return Binding{}, schemaError(t, "field %s: declared kind %s is not a single kind", a.Field, a.Kind)
	}
	if !tmpl.Accepts().Has(a.Kind) {
		return Binding{}, schemaError(t, "field %s: %s accepts %s input, field is %s",
			a.Field, tmpl.Name(), tmpl.Accepts(), a.Kind)
	}

	get := a.Get
	if get == nil {
		if a.Expression == "" {
			return Binding{}, schemaError(t, "field %s: neither a getter nor an expression", a.Field)
		}
		var err error
		if get, err = Expression(a.Expression); err != nil {
			return Binding{}, schemaError(t, "field %s: %v", a.Field, err)
		}
	}

	alias := a.Alias
	if alias == "" {
		alias = aggregator.DefaultAlias(tmpl)
	}
	field := a.Field
	if field == "" {
		field = alias
	}
	return Binding{Field: field, Alias: alias, Kind: a.Kind, Template: tmpl, get: get}, nil
}
