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
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Names of the optional aggregator functions. They are not registered by
// default; see Optional.
const (
	StdDev     = "stddev"
	Median     = "median"
	DecimalSum = "decimal_sum"
)

var optional = map[string]func() AggregatorFunction{
	StdDev:     func() AggregatorFunction { return NewStdDev() },
	Median:     func() AggregatorFunction { return NewMedian() },
	DecimalSum: func() AggregatorFunction { return NewDecimalSum() },
}

// Optional creates one of the optional functions by name.
func Optional(name string) (AggregatorFunction, error) {
	if ctor, ok := optional[strings.ToLower(name)]; ok {
		return ctor(), nil
	}
	return nil, fmt.Errorf("unknown optional aggregator function %q", name)
}

// StdDevAggregator is the sample standard deviation, computed online with
// Welford's method. Fewer than two values give NaN.
type StdDevAggregator struct {
	count int64
	mean  float64
	m2    float64
}

func NewStdDev() *StdDevAggregator { return &StdDevAggregator{} }

func (s *StdDevAggregator) Name() string            { return StdDev }
func (s *StdDevAggregator) Accepts() Kind           { return KindNumeric }
func (s *StdDevAggregator) New() AggregatorFunction { return &StdDevAggregator{} }

func (s *StdDevAggregator) Add(v Value) {
	x := v.Float()
	s.count++
	delta := x - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (x - s.mean)
}

func (s *StdDevAggregator) Result() interface{} {
	if s.count < 2 {
		return math.NaN()
	}
	return math.Sqrt(s.m2 / float64(s.count-1))
}

// MedianAggregator keeps every value and returns the median, NaN when empty.
type MedianAggregator struct {
	values []float64
	sorted bool
}

func NewMedian() *MedianAggregator { return &MedianAggregator{} }

func (m *MedianAggregator) Name() string            { return Median }
func (m *MedianAggregator) Accepts() Kind           { return KindNumeric }
func (m *MedianAggregator) New() AggregatorFunction { return &MedianAggregator{} }

func (m *MedianAggregator) Add(v Value) {
	m.values = append(m.values, v.Float())
	m.sorted = false
}

func (m *MedianAggregator) Result() interface{} {
	n := len(m.values)
	if n == 0 {
		return math.NaN()
	}
	if !m.sorted {
		sort.Float64s(m.values)
		m.sorted = true
	}
	if n%2 == 1 {
		return m.values[n/2]
	}
	return (m.values[n/2-1] + m.values[n/2]) / 2
}

// DecimalSumAggregator sums exactly with shopspring/decimal. Besides numeric
// fields it accepts objects holding numeric strings or decimals; values that
// cannot be read as a decimal are counted in Skipped and otherwise ignored.
type DecimalSumAggregator struct {
	total   decimal.Decimal
	skipped int64
}

func NewDecimalSum() *DecimalSumAggregator { return &DecimalSumAggregator{} }

func (d *DecimalSumAggregator) Name() string            { return DecimalSum }
func (d *DecimalSumAggregator) Accepts() Kind           { return KindNumeric | KindObject }
func (d *DecimalSumAggregator) New() AggregatorFunction { return &DecimalSumAggregator{} }

func (d *DecimalSumAggregator) Add(v Value) {
	dec, ok := toDecimal(v)
	if !ok {
		d.skipped++
		return
	}
	d.total = d.total.Add(dec)
}

// Result returns a decimal.Decimal.
func (d *DecimalSumAggregator) Result() interface{} { return d.total }

// Skipped returns the number of values that were not decimals.
func (d *DecimalSumAggregator) Skipped() int64 { return d.skipped }

func toDecimal(v Value) (decimal.Decimal, bool) {
	switch raw := v.Interface().(type) {
	case decimal.Decimal:
		return raw, true
	case *decimal.Decimal:
		if raw == nil {
			return decimal.Zero, false
		}
		return *raw, true
	case int:
		return decimal.NewFromInt(int64(raw)), true
	case int32:
		return decimal.NewFromInt32(raw), true
	case int64:
		return decimal.NewFromInt(raw), true
	case float32:
		return decimal.NewFromFloat32(raw), true
	case float64:
		return decimal.NewFromFloat(raw), true
	case string:
		dec, err := decimal.NewFromString(strings.TrimSpace(raw))
		return dec, err == nil
	}
	if v.Kind() == KindNumeric {
		return decimal.NewFromFloat(v.Float()), true
	}
	return decimal.Zero, false
}
