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
Package condition compiles record predicates for the engine filter.

Expressions use expr-lang syntax. Record fields are referenced by name, and
three helpers are available:

	like_match(text, pattern)   SQL LIKE with % and _ wildcards
	is_null(value)              true when value is nil or undefined
	is_not_null(value)          the negation of is_null

Example:

	cond, err := condition.NewExprCondition("Qty > 0 && like_match(SKU, 'A-%')")
	if err != nil {
		return err
	}
	engine := groupagg.New(groupagg.WithFilter(cond))
*/
package condition
