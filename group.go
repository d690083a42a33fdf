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

package groupagg

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/keys"
)

// Group is the live result of one group key. Reads reflect every record
// aggregated so far, including records aggregated after the Group was
// obtained.
type Group struct {
	layout    *layout
	encoded   string
	hash      uint64
	key       []interface{}
	functions []aggregator.AggregatorFunction
	records   int64
}

func newGroup(l *layout, encoded string, key []interface{}, functions []aggregator.AggregatorFunction) *Group {
	return &Group{
		layout:    l,
		encoded:   encoded,
		hash:      keys.Hash([]byte(encoded)),
		key:       key,
		functions: functions,
	}
}

// Key returns a deep copy of the key tuple in key order.
func (g *Group) Key() []interface{} {
	out := make([]interface{}, len(g.key))
	for i := range g.key {
		out[i] = g.KeyAt(i)
	}
	return out
}

// KeyAt returns a deep copy of the i-th key value. It panics if i is out of
// range.
func (g *Group) KeyAt(i int) interface{} { return g.layout.enc.Clone(g.key[i]) }

// Hash returns a fingerprint of the canonical key. It is stable for the
// lifetime of the engine and can be used to shard or index results.
func (g *Group) Hash() uint64 { return g.hash }

// Records returns how many records were routed to the group.
func (g *Group) Records() int64 { return g.records }

// Aliases returns the output aliases in binding order.
func (g *Group) Aliases() []string {
	return append([]string(nil), g.layout.aliases...)
}

func (g *Group) function(alias string) (aggregator.AggregatorFunction, error) {
	i, ok := g.layout.index[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return g.functions[i], nil
}

// Value returns the raw result of alias.
func (g *Group) Value(alias string) (interface{}, error) {
	fn, err := g.function(alias)
	if err != nil {
		return nil, err
	}
	return fn.Result(), nil
}

// Float returns the result of alias as a float64.
func (g *Group) Float(alias string) (float64, error) {
	v, err := g.Value(alias)
	if err != nil {
		return 0, err
	}
	switch d := v.(type) {
	case decimal.Decimal:
		return d.InexactFloat64(), nil
	case *aggregator.Set:
		return 0, readError(alias, v, "float64")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, readError(alias, v, "float64")
	}
	return f, nil
}

// Int returns the result of alias as an int64, truncating fractions.
func (g *Group) Int(alias string) (int64, error) {
	v, err := g.Value(alias)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n.IntPart(), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, readError(alias, v, "int64")
		}
		return int64(n), nil
	case *aggregator.Set:
		return 0, readError(alias, v, "int64")
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, readError(alias, v, "int64")
	}
	return i, nil
}

// Bool returns the result of alias as a bool.
func (g *Group) Bool(alias string) (bool, error) {
	v, err := g.Value(alias)
	if err != nil {
		return false, err
	}
	if _, ok := v.(*aggregator.Set); ok {
		return false, readError(alias, v, "bool")
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, readError(alias, v, "bool")
	}
	return b, nil
}

// Char returns the result of alias as a rune.
func (g *Group) Char(alias string) (rune, error) {
	v, err := g.Value(alias)
	if err != nil {
		return 0, err
	}
	if _, ok := v.(*aggregator.Set); ok {
		return 0, readError(alias, v, "rune")
	}
	r, err := cast.ToInt32E(v)
	if err != nil {
		return 0, readError(alias, v, "rune")
	}
	return r, nil
}

// Set returns the distinct-set result of alias.
func (g *Group) Set(alias string) (*aggregator.Set, error) {
	v, err := g.Value(alias)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*aggregator.Set)
	if !ok {
		return nil, readError(alias, v, "set")
	}
	return s, nil
}

// Map returns alias to result for every binding.
func (g *Group) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(g.functions))
	for i, alias := range g.layout.aliases {
		out[alias] = g.functions[i].Result()
	}
	return out
}

// row is Map plus the key values under their key names.
func (g *Group) row() map[string]interface{} {
	out := make(map[string]interface{}, len(g.key)+len(g.functions))
	for i, name := range g.layout.keyNames {
		out[name] = g.KeyAt(i)
	}
	for i, alias := range g.layout.aliases {
		out[alias] = g.functions[i].Result()
	}
	return out
}

func (g *Group) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v", g.key)
	for i, alias := range g.layout.aliases {
		fmt.Fprintf(&sb, " %s=%v", alias, g.functions[i].Result())
	}
	return sb.String()
}

func readError(alias string, v interface{}, target string) error {
	return fmt.Errorf("%w: result %q (%T) cannot be read as %s", ErrRuntime, alias, v, target)
}
