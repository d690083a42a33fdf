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

/*
Package aggregator provides the aggregate functions used by groupagg.

An aggregate function is a small accumulator with a template lifecycle: the
engine keeps one registered instance per function name and calls New to get a
fresh, zero-state copy for every group that binds it. Instances never read each
other's state.

# Input kinds

Every value handed to a function is a Value tagged with one Kind:

	KindNumeric  // float64 payload, e.g. int, uint8, float32 fields
	KindBool     // bool payload
	KindChar     // rune payload
	KindObject   // raw value only, e.g. strings, structs, slices

A function declares the kinds it accepts through Accepts. The check happens once,
when a record type is resolved, so Add never has to reject a value.

# Default functions

	count     KindAny      int64
	sum       KindNumeric  float64
	avg       KindNumeric  float64, NaN with no data
	min       KindNumeric  float64, starts at +Inf, NaN once a NaN is seen
	max       KindNumeric  float64, starts at -Inf, NaN once a NaN is seen
	distinct  KindAny      *Set

Optional functions (stddev, median, decimal_sum) are created with Optional and
registered explicitly.

# Custom functions

	type lastAggregator struct{ last interface{} }

	func (l *lastAggregator) Name() string                       { return "last" }
	func (l *lastAggregator) Accepts() aggregator.Kind           { return aggregator.KindAny }
	func (l *lastAggregator) New() aggregator.AggregatorFunction { return &lastAggregator{} }
	func (l *lastAggregator) Add(v aggregator.Value)             { l.last = v.Interface() }
	func (l *lastAggregator) Result() interface{}                { return l.last }

	err := engine.RegisterAggregateFunction(&lastAggregator{})
*/
package aggregator
