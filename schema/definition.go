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
	"fmt"
	"reflect"

	"github.com/rulego/groupagg/aggregator"
)

// ErrSchema is wrapped by every resolution failure: an unknown function, an
// input kind the function does not accept, ambiguous key ordinals or aliases,
// malformed tags.
var ErrSchema = errors.New("schema violation")

// Getter extracts one raw value from a record.
type Getter func(record interface{}) (interface{}, error)

// KeyDef declares one group-by key field.
type KeyDef struct {
	// Name is used in error messages and result rendering.
	Name string
	// Order is the position of the key in the group key tuple. Orders must be
	// unique within a definition.
	Order int
	Get   Getter
}

// AggregateDef declares that a value feeds an aggregator function.
type AggregateDef struct {
	// Field names the source for error messages.
	Field string
	// Function is the registered function name, e.g. "sum".
	Function string
	// Alias is the output name. Empty falls back to aggregator.DefaultAlias.
	Alias string
	// Kind is the declared input kind of the value. Required.
	Kind aggregator.Kind
	// Get extracts the value. When nil, Expression is compiled instead.
	Get Getter
	// Expression is an expr-lang expression evaluated against the record.
	Expression string
}

// Definition is the declarative schema of a record type.
type Definition struct {
	Keys       []KeyDef
	Aggregates []AggregateDef
}

// Definer is implemented by record types that describe themselves. The method
// is called once, on a zero value, when the type is first resolved.
type Definer interface {
	GroupDefinition() Definition
}

// Functions looks up templates by name. *aggregator.Registry implements it.
type Functions interface {
	Get(name string) (aggregator.AggregatorFunction, bool)
}

func schemaError(t reflect.Type, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v: %s", ErrSchema, t, fmt.Sprintf(format, args...))
}
