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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/groupagg/aggregator"
)

type sale struct {
	Region string  `agg:"key"`
	Shop   int     `agg:"key:1"`
	Amount float64 `agg:"sum:total,avg:mean,count:n"`
	Note   string
}

type base struct {
	ID    string `agg:"key"`
	Value int    `agg:"sum:total"`
}

type derived struct {
	base
	Tags  []string `agg:"distinct:tags"`
	Valid bool     `agg:"count:valid"`
}

type lettered struct {
	Letter rune `agg:"distinct:letters" aggkind:"char"`
}

type reversed struct {
	A string `agg:"key:2"`
	B string `agg:"key:1"`
}

type noKeys struct {
	X float64 `agg:"max:top"`
}

func resolve(t *testing.T, sample interface{}) *Descriptor {
	t.Helper()
	d, err := NewResolver(aggregator.DefaultRegistry()).Resolve(reflect.TypeOf(sample))
	require.NoError(t, err)
	return d
}

func TestResolveTags(t *testing.T) {
	d := resolve(t, sale{})

	require.Len(t, d.Keys, 2)
	assert.Equal(t, "Region", d.Keys[0].Name)
	assert.Equal(t, "Shop", d.Keys[1].Name)
	assert.Equal(t, []string{"total", "mean", "n"}, d.Aliases())

	b, ok := d.Binding("mean")
	require.True(t, ok)
	assert.Equal(t, "Amount", b.Field)
	assert.Equal(t, aggregator.KindNumeric, b.Kind)
	assert.Equal(t, aggregator.Avg, b.Template.Name())

	key, err := d.AppendKey(nil, sale{Region: "north", Shop: 3})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"north", 3}, key)

	v, err := b.Extract(&sale{Amount: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 2.5, v.Float())
}

func TestResolveKeyOrder(t *testing.T) {
	d := resolve(t, reversed{})
	require.Len(t, d.Keys, 2)
	assert.Equal(t, "B", d.Keys[0].Name)
	assert.Equal(t, "A", d.Keys[1].Name)

	d = resolve(t, noKeys{})
	assert.Empty(t, d.Keys)
	assert.Equal(t, []string{"top"}, d.Aliases())
}

func TestResolveEmbedded(t *testing.T) {
	d := resolve(t, derived{})

	require.Len(t, d.Keys, 1)
	assert.Equal(t, "ID", d.Keys[0].Name)
	assert.Equal(t, []string{"total", "tags", "valid"}, d.Aliases())

	rec := derived{base: base{ID: "a", Value: 4}, Tags: []string{"x"}}
	key, err := d.AppendKey(nil, rec)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a"}, key)

	total, _ := d.Binding("total")
	v, err := total.Extract(rec)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v.Float())

	valid, _ := d.Binding("valid")
	assert.Equal(t, aggregator.KindBool, valid.Kind)
}

func TestResolveKindOverride(t *testing.T) {
	d := resolve(t, lettered{})
	b, ok := d.Binding("letters")
	require.True(t, ok)
	assert.Equal(t, aggregator.KindChar, b.Kind)

	v, err := b.Extract(lettered{Letter: 'q'})
	require.NoError(t, err)
	assert.Equal(t, 'q', v.Char())
}

func TestResolveCaches(t *testing.T) {
	r := NewResolver(aggregator.DefaultRegistry())
	typ := reflect.TypeOf(sale{})

	_, ok := r.Cached(typ)
	assert.False(t, ok)

	first, err := r.Resolve(typ)
	require.NoError(t, err)
	second, err := r.Resolve(typ)
	require.NoError(t, err)
	assert.Same(t, first, second)

	cached, ok := r.Cached(typ)
	assert.True(t, ok)
	assert.Same(t, first, cached)

	assert.ErrorIs(t, r.Define(typ, Definition{}), ErrSchema)
}

type unexportedTag struct {
	secret int `agg:"sum:s"`
}

type unknownFunction struct {
	X int `agg:"mode:m"`
}

type wrongKind struct {
	Name string `agg:"sum:s"`
}

type duplicateAlias struct {
	A int `agg:"sum:x"`
	B int `agg:"max:x"`
}

type orderTie struct {
	A string `agg:"key:1"`
	B string `agg:"key:1"`
}

type funcKey struct {
	F func() `agg:"key"`
}

type badOrder struct {
	A string `agg:"key:first"`
}

type badKindTag struct {
	A string `aggkind:"char" agg:"distinct:a"`
}

type emptyTag struct {
	A string `agg:""`
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		sample interface{}
	}{
		{"unexported field", unexportedTag{}},
		{"unknown function", unknownFunction{}},
		{"kind not accepted", wrongKind{}},
		{"duplicate alias", duplicateAlias{}},
		{"key order tie", orderTie{}},
		{"func key", funcKey{}},
		{"malformed order", badOrder{}},
		{"kind override mismatch", badKindTag{}},
		{"empty tag", emptyTag{}},
		{"not a struct", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(aggregator.DefaultRegistry())
			typ := reflect.TypeOf(tt.sample)
			_, err := r.Resolve(typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema), err.Error())
			_, cached := r.Cached(typ)
			assert.False(t, cached)
		})
	}
}

type selfDefined struct {
	Host string
	Load float64
}

func (selfDefined) GroupDefinition() Definition {
	return Definition{
		Keys: []KeyDef{{Name: "host", Get: Path("Host")}},
		Aggregates: []AggregateDef{
			{Field: "Load", Function: "max", Alias: "peak", Kind: aggregator.KindNumeric, Get: Path("Load")},
		},
	}
}

type pointerDefined struct{ N int }

func (p *pointerDefined) GroupDefinition() Definition {
	return Definition{
		Aggregates: []AggregateDef{
			{Field: "N", Function: "sum", Alias: "n", Kind: aggregator.KindNumeric, Get: Path("N")},
		},
	}
}

func TestResolveDefiner(t *testing.T) {
	d := resolve(t, selfDefined{})
	assert.Equal(t, []string{"peak"}, d.Aliases())

	key, err := d.AppendKey(nil, selfDefined{Host: "h1"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"h1"}, key)

	for _, sample := range []interface{}{pointerDefined{}, &pointerDefined{}} {
		d := resolve(t, sample)
		assert.Equal(t, []string{"n"}, d.Aliases())
	}
}

func TestDefineMapRecords(t *testing.T) {
	r := NewResolver(aggregator.DefaultRegistry())
	typ := reflect.TypeOf(map[string]interface{}{})
	require.NoError(t, r.Define(typ, Definition{
		Keys: []KeyDef{{Name: "device", Get: Path("device.id")}},
		Aggregates: []AggregateDef{
			{Field: "temp", Function: "avg", Alias: "avg_temp", Kind: aggregator.KindNumeric, Get: Path("temp")},
			{Field: "energy", Function: "sum", Alias: "energy", Kind: aggregator.KindNumeric, Expression: "volts * amps"},
		},
	}))

	d, err := r.Resolve(typ)
	require.NoError(t, err)

	rec := map[string]interface{}{
		"device": map[string]interface{}{"id": "d1"},
		"temp":   "21.5",
		"volts":  2.0,
		"amps":   3.0,
	}
	key, err := d.AppendKey(nil, rec)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"d1"}, key)

	avg, _ := d.Binding("avg_temp")
	v, err := avg.Extract(rec)
	require.NoError(t, err)
	assert.Equal(t, 21.5, v.Float())

	energy, _ := d.Binding("energy")
	v, err = energy.Extract(rec)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v.Float())

	_, err = d.AppendKey(nil, map[string]interface{}{"temp": 1})
	assert.Error(t, err)
}

func TestDefinitionErrors(t *testing.T) {
	get := Path("x")
	tests := []struct {
		name string
		def  Definition
	}{
		{"nil key getter", Definition{Keys: []KeyDef{{Name: "k"}}}},
		{"missing kind", Definition{Aggregates: []AggregateDef{{Function: "sum", Alias: "s", Get: get}}}},
		{"multiple kinds", Definition{Aggregates: []AggregateDef{
			{Function: "count", Alias: "c", Kind: aggregator.KindNumeric | aggregator.KindBool, Get: get}}}},
		{"no getter", Definition{Aggregates: []AggregateDef{{Function: "sum", Alias: "s", Kind: aggregator.KindNumeric}}}},
		{"bad expression", Definition{Aggregates: []AggregateDef{
			{Function: "sum", Alias: "s", Kind: aggregator.KindNumeric, Expression: "a +"}}}},
		{"unknown function", Definition{Aggregates: []AggregateDef{
			{Function: "nope", Alias: "s", Kind: aggregator.KindNumeric, Get: get}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(aggregator.DefaultRegistry())
			typ := reflect.TypeOf(map[string]interface{}{})
			require.NoError(t, r.Define(typ, tt.def))
			_, err := r.Resolve(typ)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestDefaultAliasFallback(t *testing.T) {
	r := NewResolver(aggregator.DefaultRegistry())
	typ := reflect.TypeOf(map[string]interface{}{})
	require.NoError(t, r.Define(typ, Definition{
		Aggregates: []AggregateDef{{Function: "sum", Kind: aggregator.KindNumeric, Get: Path("x")}},
	}))
	d, err := r.Resolve(typ)
	require.NoError(t, err)
	assert.Equal(t, []string{"*aggregator.SumAggregator"}, d.Aliases())
}

func TestExtractNilRecord(t *testing.T) {
	d := resolve(t, sale{})
	var rec *sale
	_, err := d.AppendKey(nil, rec)
	assert.Error(t, err)
}
