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

package condition

import (
	"fmt"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition is a compiled predicate over one record.
type Condition interface {
	Evaluate(env interface{}) bool
}

// ExprCondition evaluates an expr-lang program. Struct fields and map keys of
// the record are in scope by name; unknown names evaluate to nil.
type ExprCondition struct {
	expression string
	program    *vm.Program
}

// NewExprCondition compiles a boolean expression.
//
// Example:
//
//	cond, err := condition.NewExprCondition("Amount > 0 && like_match(Region, 'north%')")
func NewExprCondition(expression string) (*ExprCondition, error) {
	options := []expr.Option{
		expr.Function("like_match", func(params ...any) (any, error) {
			if len(params) != 2 {
				return false, fmt.Errorf("like_match function requires 2 parameters")
			}
			text, ok1 := params[0].(string)
			pattern, ok2 := params[1].(string)
			if !ok1 || !ok2 {
				return false, fmt.Errorf("like_match function requires string parameters")
			}
			return LikeMatch(text, pattern), nil
		}),
		expr.Function("is_null", func(params ...any) (any, error) {
			if len(params) != 1 {
				return false, fmt.Errorf("is_null function requires 1 parameter")
			}
			return params[0] == nil, nil
		}),
		expr.Function("is_not_null", func(params ...any) (any, error) {
			if len(params) != 1 {
				return false, fmt.Errorf("is_not_null function requires 1 parameter")
			}
			return params[0] != nil, nil
		}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", expression, err)
	}
	return &ExprCondition{expression: expression, program: program}, nil
}

// Evaluate runs the predicate. A runtime error counts as false.
func (ec *ExprCondition) Evaluate(env interface{}) bool {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false
	}
	b, _ := result.(bool)
	return b
}

// String returns the source expression.
func (ec *ExprCondition) String() string { return ec.expression }

// LikeMatch reports whether text matches a SQL LIKE pattern, where % matches
// any run of characters and _ matches exactly one.
func LikeMatch(text, pattern string) bool {
	t, p := 0, 0
	// position of the last % in pattern and the text offset it resumed from
	star, resume := -1, 0
	for t < len(text) {
		if p < len(pattern) {
			switch pattern[p] {
			case '%':
				star, resume = p, t
				p++
				continue
			case '_':
				_, size := utf8.DecodeRuneInString(text[t:])
				t += size
				p++
				continue
			default:
				pr, psize := utf8.DecodeRuneInString(pattern[p:])
				tr, tsize := utf8.DecodeRuneInString(text[t:])
				if pr == tr {
					t += tsize
					p += psize
					continue
				}
			}
		}
		if star < 0 {
			return false
		}
		_, size := utf8.DecodeRuneInString(text[resume:])
		resume += size
		t = resume
		p = star + 1
	}
	for p < len(pattern) && pattern[p] == '%' {
		p++
	}
	return p == len(pattern)
}
