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

// Package schema discovers how a record type is grouped and aggregated.
//
// A Descriptor lists the key extractors of a type, ordered by their declared
// position, and the aggregate bindings that feed each field into a function
// template under an output alias. Descriptors come from, in order of
// precedence, a Definition registered with Resolver.Define, a Definer
// implementation, or struct tags:
//
//	type Sale struct {
//		Region string  `agg:"key"`
//		Shop   int     `agg:"key:1"`
//		Amount float64 `agg:"sum:total,avg:mean,count:n"`
//	}
//
// Embedded structs without a tag are walked, so shared fields can be declared
// once and reused by composition.
package schema
