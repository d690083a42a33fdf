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
	"strings"

	"github.com/rulego/groupagg/keys"
)

// Set is a read-only view of the distinct values collected by a distinct
// aggregate. Membership uses structural equality. Values are copied deeply on
// insert, so mutating a value after it was aggregated does not change the set.
type Set struct {
	enc    *keys.Encoder
	index  map[string]struct{}
	values []interface{}
	buf    []byte
}

func newSet(enc *keys.Encoder) *Set {
	return &Set{enc: enc, index: make(map[string]struct{})}
}

func (s *Set) key(v interface{}) string {
	b, err := s.enc.Append(s.buf[:0], v)
	if err != nil {
		// no structural identity (e.g. a func value)
		return fmt.Sprintf("\xff%T|%v", v, v)
	}
	s.buf = b
	return string(b)
}

func (s *Set) add(v interface{}) {
	b, err := s.enc.Append(s.buf[:0], v)
	if err != nil {
		b = []byte(s.key(v))
	} else {
		s.buf = b
	}
	if _, ok := s.index[string(b)]; ok {
		return
	}
	s.index[string(b)] = struct{}{}
	s.values = append(s.values, s.enc.Clone(v))
}

// Len returns the number of distinct values.
func (s *Set) Len() int { return len(s.values) }

// Contains reports whether a value structurally equal to v was seen.
func (s *Set) Contains(v interface{}) bool {
	_, ok := s.index[s.key(v)]
	return ok
}

// Values returns deep copies of the distinct values in first-seen order.
func (s *Set) Values() []interface{} {
	out := make([]interface{}, len(s.values))
	for i, v := range s.values {
		out[i] = s.enc.Clone(v)
	}
	return out
}

func (s *Set) String() string {
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
