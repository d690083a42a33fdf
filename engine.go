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
	"io"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/condition"
	"github.com/rulego/groupagg/keys"
	"github.com/rulego/groupagg/logger"
	"github.com/rulego/groupagg/schema"
	"github.com/rulego/groupagg/utils/table"
)

// Stats counts what an engine did with the records it was given.
type Stats struct {
	// Records is the number of records routed to a group.
	Records int64
	// Filtered is the number of records dropped by the filter.
	Filtered int64
	// Failed is the number of Aggregate calls that returned an error.
	Failed int64
	// Groups is the number of distinct group keys.
	Groups int
}

// view aligns the bindings of one record type with the sealed aliases.
type view struct {
	desc     *schema.Descriptor
	bindings []*schema.Binding
}

// Engine groups records by key and aggregates their bound fields. An Engine
// is not safe for concurrent use.
//
// Example:
//
//	type Sale struct {
//		Region string  `agg:"key"`
//		Amount float64 `agg:"sum:total,count:n"`
//	}
//
//	engine := groupagg.New()
//	_ = engine.Aggregate(Sale{Region: "north", Amount: 10})
//	g, _ := engine.Group("north")
//	total, _ := g.Float("total")
type Engine struct {
	id        string
	log       logger.Logger
	functions *aggregator.Registry
	resolver  *schema.Resolver
	filter    condition.Condition
	capacity  int
	state     State
	layout    *layout
	store     *store
	views     map[reflect.Type]*view
	stats     Stats

	enc    *keys.Encoder
	keyBuf []interface{}
	valBuf []aggregator.Value
	encBuf []byte

	// setup collected from options, applied once options are all known
	logLevel    *logger.Level
	extra       []aggregator.AggregatorFunction
	definitions []definition
}

type definition struct {
	sample interface{}
	def    schema.Definition
}

// New creates an Open engine with the default aggregate functions.
//
// Example:
//
//	engine := groupagg.New(
//	    groupagg.WithLogLevel(logger.DEBUG),
//	    groupagg.WithFunctions(aggregator.NewMedian()),
//	)
func New(options ...Option) *Engine {
	functions := aggregator.DefaultRegistry()
	e := &Engine{
		id:        uuid.NewString(),
		log:       logger.GetDefault(),
		functions: functions,
		resolver:  schema.NewResolver(functions),
		views:     make(map[reflect.Type]*view),
		enc:       keys.NewEncoder(),
	}
	for _, option := range options {
		option(e)
	}
	if e.logLevel != nil {
		e.log.SetLevel(*e.logLevel)
	}
	for _, fn := range e.extra {
		if err := e.RegisterAggregateFunction(fn); err != nil {
			e.log.Error("engine %s: %v", e.id, err)
		}
	}
	for _, d := range e.definitions {
		if err := e.Define(d.sample, d.def); err != nil {
			e.log.Error("engine %s: %v", e.id, err)
		}
	}
	e.extra, e.definitions, e.logLevel = nil, nil, nil
	return e
}

// ID returns the engine instance id used in log lines.
func (e *Engine) ID() string { return e.id }

// State returns the protocol state.
func (e *Engine) State() State { return e.state }

// Stats returns the record counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Groups = e.Len()
	return s
}

// RegisterAggregateFunction adds a function template that schemas can
// reference by name. It fails with ErrProtocol once the engine sealed.
func (e *Engine) RegisterAggregateFunction(fn aggregator.AggregatorFunction) error {
	next, err := transition(e.state, eventRegister)
	if err != nil {
		return err
	}
	if err := e.functions.Register(fn); err != nil {
		return err
	}
	e.state = next
	e.log.Debug("engine %s: registered aggregate function %s", e.id, fn.Name())
	return nil
}

// Define registers an explicit schema for the type of sample. It takes
// precedence over a GroupDefinition method and over struct tags, and is the
// way to aggregate map records or types you do not own.
//
// Example:
//
//	engine.Define(map[string]interface{}{}, schema.Definition{
//	    Keys: []schema.KeyDef{{Name: "device", Get: schema.Path("device")}},
//	    Aggregates: []schema.AggregateDef{
//	        {Field: "temp", Function: "avg", Alias: "avg_temp", Kind: aggregator.KindNumeric, Get: schema.Path("temp")},
//	    },
//	})
func (e *Engine) Define(sample interface{}, def schema.Definition) error {
	if sample == nil {
		return fmt.Errorf("%w: cannot define a schema for a nil sample", ErrSchema)
	}
	return e.resolver.Define(reflect.TypeOf(sample), def)
}

// Aggregate routes record to the group of its key and feeds every bound
// value to that group's functions. A failed call leaves all groups unchanged.
// The first call seals the engine, whether or not it succeeds, and the first
// record type that resolves fixes the result shape.
func (e *Engine) Aggregate(record interface{}) error {
	next, err := transition(e.state, eventAggregate)
	if err != nil {
		e.stats.Failed++
		return err
	}
	if e.state != next {
		e.log.Debug("engine %s: sealed", e.id)
	}
	e.state = next

	if err := e.aggregate(record); err != nil {
		e.stats.Failed++
		return err
	}
	return nil
}

func (e *Engine) aggregate(record interface{}) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrRuntime)
	}
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Errorf("%w: nil %T record", ErrRuntime, record)
	}

	v, err := e.view(rv.Type())
	if err != nil {
		return err
	}
	if e.filter != nil && !e.filter.Evaluate(record) {
		e.stats.Filtered++
		return nil
	}

	if e.keyBuf, err = v.desc.AppendKey(e.keyBuf[:0], record); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrRuntime, record, err)
	}
	e.valBuf = e.valBuf[:0]
	for _, b := range v.bindings {
		val, err := b.Extract(record)
		if err != nil {
			return fmt.Errorf("%w: %T: %w", ErrRuntime, record, err)
		}
		e.valBuf = append(e.valBuf, val)
	}
	if e.encBuf, err = e.enc.AppendTuple(e.encBuf[:0], e.keyBuf); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrRuntime, record, err)
	}

	g, created := e.store.route(e.encBuf, e.keyBuf)
	if created {
		e.log.Debug("engine %s: new group %v (%d groups)", e.id, g.key, e.store.len())
	}
	e.store.ingest(g, e.valBuf)
	e.stats.Records++
	return nil
}

// view resolves t. The first resolved type fixes the result shape and later
// types are checked against it.
func (e *Engine) view(t reflect.Type) (*view, error) {
	if v, ok := e.views[t]; ok {
		return v, nil
	}
	desc, err := e.resolver.Resolve(t)
	if err != nil {
		return nil, err
	}
	e.log.Debug("engine %s: resolved %v: %d keys, aliases %v", e.id, t, len(desc.Keys), desc.Aliases())
	if e.layout == nil {
		e.fixShape(desc)
	}

	v, err := e.match(desc)
	if err != nil {
		return nil, err
	}
	e.views[t] = v
	return v, nil
}

func (e *Engine) fixShape(desc *schema.Descriptor) {
	keyNames := make([]string, len(desc.Keys))
	for i := range desc.Keys {
		keyNames[i] = desc.Keys[i].Name
	}
	templates := make([]aggregator.AggregatorFunction, len(desc.Bindings))
	for i := range desc.Bindings {
		templates[i] = desc.Bindings[i].Template
	}
	e.layout = newLayout(e.enc, keyNames, desc.Aliases(), templates)
	e.store = newStore(e.layout, e.capacity)
	e.log.Debug("engine %s: result shape fixed by %v: keys %v, aliases %v",
		e.id, desc.Type, keyNames, e.layout.aliases)
}

func (e *Engine) match(desc *schema.Descriptor) (*view, error) {
	if len(desc.Keys) != len(e.layout.keyNames) {
		return nil, fmt.Errorf("%w: %v has %d key fields, the engine groups by %d",
			ErrRuntime, desc.Type, len(desc.Keys), len(e.layout.keyNames))
	}
	v := &view{desc: desc, bindings: make([]*schema.Binding, len(e.layout.aliases))}
	for i, alias := range e.layout.aliases {
		b, ok := desc.Binding(alias)
		if !ok {
			return nil, fmt.Errorf("%w: %v does not bind alias %q", ErrRuntime, desc.Type, alias)
		}
		if want := e.layout.templates[i].Name(); !strings.EqualFold(b.Template.Name(), want) {
			return nil, fmt.Errorf("%w: %v binds alias %q to %s, the engine aggregates it with %s",
				ErrRuntime, desc.Type, alias, b.Template.Name(), want)
		}
		v.bindings[i] = b
	}
	if extra := len(desc.Bindings) - len(v.bindings); extra > 0 {
		var ignored []string
		for _, b := range desc.Bindings {
			if _, sealed := e.layout.index[b.Alias]; !sealed {
				ignored = append(ignored, b.Alias)
			}
		}
		e.log.Warn("engine %s: %v bindings %v are not part of the result and are ignored", e.id, desc.Type, ignored)
	}
	return v, nil
}

// Aliases returns the output aliases in binding order. It is empty until a
// record type resolved.
func (e *Engine) Aliases() []string {
	if e.layout == nil {
		return []string{}
	}
	return append([]string(nil), e.layout.aliases...)
}

// Results returns every group in the order its key was first seen.
func (e *Engine) Results() []*Group {
	if e.store == nil {
		return []*Group{}
	}
	return e.store.snapshot()
}

// Group looks a group up by its key values, given in key order.
func (e *Engine) Group(key ...interface{}) (*Group, bool) {
	if e.store == nil {
		return nil, false
	}
	encoded, err := e.enc.AppendTuple(nil, key)
	if err != nil {
		return nil, false
	}
	return e.store.lookup(encoded)
}

// Len returns the number of groups.
func (e *Engine) Len() int {
	if e.store == nil {
		return 0
	}
	return e.store.len()
}

// Rows returns one map per group holding the key values under their key
// names and the results under their aliases.
func (e *Engine) Rows() []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, e.Len())
	for _, g := range e.Results() {
		rows = append(rows, g.row())
	}
	return rows
}

// PrintTable writes the results to w as an ASCII table, key columns first.
func (e *Engine) PrintTable(w io.Writer) {
	var columns []string
	if e.layout != nil {
		columns = append(append(columns, e.layout.keyNames...), e.layout.aliases...)
	}
	table.PrintTableFromSlice(w, e.Rows(), columns)
}
