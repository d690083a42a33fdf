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
Package groupagg is an in-memory GROUP BY aggregation engine.

Records are handed to an Engine one at a time. The engine discovers the key
fields and aggregate bindings of each record type once, routes every record to
the group of its composite key and feeds the bound fields into that group's
aggregate functions. Results are read per group under the aliases declared by
the bindings.

# Declaring a schema

Struct tags are the shortest way:

	type Sale struct {
		Region string  `agg:"key"`
		Shop   int     `agg:"key:1"`
		Amount float64 `agg:"sum:total,avg:mean,count:n"`
		SKU    string  `agg:"distinct:skus"`
	}

Map records and types you do not own are described with schema.Definition and
Engine.Define; a type can also describe itself by implementing schema.Definer.

# Aggregating

	engine := groupagg.New()
	for _, s := range sales {
		if err := engine.Aggregate(s); err != nil {
			return err
		}
	}
	for _, g := range engine.Results() {
		total, _ := g.Float("total")
		fmt.Println(g.Key(), total)
	}

Group keys compare structurally: two keys are equal when every position is
deeply equal, including slices, maps and pointed-to values.

# Protocol

An engine starts Open. Custom functions are registered with
RegisterAggregateFunction while it is Open. The first Aggregate call seals
the engine; from then on registration fails with ErrProtocol. The first record
type that resolves fixes the key arity and the result aliases; later record
types must bind every alias to the same function.

# Errors

Errors wrap one of ErrProtocol, ErrSchema, ErrUnknownAlias and ErrRuntime and
are matched with errors.Is. A failing Aggregate call changes no group.
*/
package groupagg
