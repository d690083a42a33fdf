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

	"github.com/expr-lang/expr"

	"github.com/rulego/groupagg/utils/fieldpath"
)

// Expression compiles an expr-lang expression into a Getter. The record itself
// is the evaluation environment, so struct fields and map keys are visible by
// name:
//
//	schema.Expression("Price * Quantity")
func Expression(expression string) (Getter, error) {
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	return func(record interface{}) (interface{}, error) {
		return expr.Run(program, record)
	}, nil
}

// Path returns a Getter reading a dotted field path such as "device.id" or
// "readings[0].value" from maps and structs. A malformed path fails on every
// call. A missing field is an error, not a nil value.
func Path(path string) Getter {
	p, err := fieldpath.Parse(path)
	if err != nil {
		return func(interface{}) (interface{}, error) { return nil, err }
	}
	return func(record interface{}) (interface{}, error) {
		v, found := p.Get(record)
		if !found {
			return nil, fmt.Errorf("field %s not found", p)
		}
		return v, nil
	}
}
