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
	"math"
	"reflect"

	"github.com/rulego/groupagg/keys"
)

// Names of the default aggregator functions.
const (
	Count    = "count"
	Sum      = "sum"
	Avg      = "avg"
	Min      = "min"
	Max      = "max"
	Distinct = "distinct"
)

// AggregatorFunction is the accumulator contract. A registered instance is a
// template: New returns a fresh zero-state instance of the same variant, one
// per (group, binding) pair. Add never sees a kind outside Accepts, which is
// checked once when a record type is resolved.
type AggregatorFunction interface {
	// Name is the identifier used by schema definitions, e.g. "sum".
	Name() string
	// Accepts returns the input kinds this function can consume.
	Accepts() Kind
	// New creates a new zero-state instance.
	New() AggregatorFunction
	// Add consumes one value.
	Add(v Value)
	// Result returns the current aggregate.
	Result() interface{}
}

// DefaultAlias is the alias used when a binding does not name one: the Go type
// name of the function, e.g. "*aggregator.SumAggregator". It is only a
// fallback; readers should always declare aliases explicitly.
func DefaultAlias(fn AggregatorFunction) string {
	return reflect.TypeOf(fn).String()
}

// CountAggregator counts values of any kind.
type CountAggregator struct {
	count int64
}

func NewCount() *CountAggregator { return &CountAggregator{} }

func (c *CountAggregator) Name() string            { return Count }
func (c *CountAggregator) Accepts() Kind           { return KindAny }
func (c *CountAggregator) New() AggregatorFunction { return &CountAggregator{} }
func (c *CountAggregator) Add(_ Value)             { c.count++ }
func (c *CountAggregator) Result() interface{}     { return c.count }

// SumAggregator adds numeric values.
type SumAggregator struct {
	value float64
}

func NewSum() *SumAggregator { return &SumAggregator{} }

func (s *SumAggregator) Name() string            { return Sum }
func (s *SumAggregator) Accepts() Kind           { return KindNumeric }
func (s *SumAggregator) New() AggregatorFunction { return &SumAggregator{} }
func (s *SumAggregator) Add(v Value)             { s.value += v.Float() }
func (s *SumAggregator) Result() interface{}     { return s.value }

// AvgAggregator is the arithmetic mean. With no values the result is NaN,
// which readers treat as "no data yet".
type AvgAggregator struct {
	sum   float64
	count int64
}

func NewAvg() *AvgAggregator { return &AvgAggregator{} }

func (a *AvgAggregator) Name() string            { return Avg }
func (a *AvgAggregator) Accepts() Kind           { return KindNumeric }
func (a *AvgAggregator) New() AggregatorFunction { return &AvgAggregator{} }

func (a *AvgAggregator) Add(v Value) {
	a.sum += v.Float()
	a.count++
}

func (a *AvgAggregator) Result() interface{} {
	if a.count == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.count)
}

// MinAggregator keeps the smallest value, starting at +Inf. A NaN input makes
// the result NaN from then on, as it does for Sum and Avg.
type MinAggregator struct {
	value float64
}

func NewMin() *MinAggregator { return &MinAggregator{value: math.Inf(1)} }

func (m *MinAggregator) Name() string            { return Min }
func (m *MinAggregator) Accepts() Kind           { return KindNumeric }
func (m *MinAggregator) New() AggregatorFunction { return NewMin() }

func (m *MinAggregator) Add(v Value) {
	if f := v.Float(); f < m.value || math.IsNaN(f) {
		m.value = f
	}
}

func (m *MinAggregator) Result() interface{} { return m.value }

// MaxAggregator keeps the largest value, starting at -Inf. A NaN input makes
// the result NaN from then on, as it does for Sum and Avg.
type MaxAggregator struct {
	value float64
}

func NewMax() *MaxAggregator { return &MaxAggregator{value: math.Inf(-1)} }

func (m *MaxAggregator) Name() string            { return Max }
func (m *MaxAggregator) Accepts() Kind           { return KindNumeric }
func (m *MaxAggregator) New() AggregatorFunction { return NewMax() }

func (m *MaxAggregator) Add(v Value) {
	if f := v.Float(); f > m.value || math.IsNaN(f) {
		m.value = f
	}
}

func (m *MaxAggregator) Result() interface{} { return m.value }

// DistinctAggregator collects the distinct raw values it sees. Its result is a
// *Set. Instances created from one template share a key encoder.
type DistinctAggregator struct {
	enc *keys.Encoder
	set *Set
}

func NewDistinct() *DistinctAggregator {
	enc := keys.NewEncoder()
	return &DistinctAggregator{enc: enc, set: newSet(enc)}
}

func (d *DistinctAggregator) Name() string  { return Distinct }
func (d *DistinctAggregator) Accepts() Kind { return KindAny }

func (d *DistinctAggregator) New() AggregatorFunction {
	return &DistinctAggregator{enc: d.enc, set: newSet(d.enc)}
}

func (d *DistinctAggregator) Add(v Value)         { d.set.add(v.Interface()) }
func (d *DistinctAggregator) Result() interface{} { return d.set }
