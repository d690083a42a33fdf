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

package groupagg

import (
	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/keys"
)

// layout is the shape fixed when the engine seals. Every group shares it.
type layout struct {
	enc       *keys.Encoder
	keyNames  []string
	aliases   []string
	index     map[string]int
	templates []aggregator.AggregatorFunction
}

func newLayout(enc *keys.Encoder, keyNames, aliases []string, templates []aggregator.AggregatorFunction) *layout {
	l := &layout{
		enc:       enc,
		keyNames:  keyNames,
		aliases:   aliases,
		index:     make(map[string]int, len(aliases)),
		templates: templates,
	}
	for i, alias := range aliases {
		l.index[alias] = i
	}
	return l
}

// store maps canonical key encodings to groups and remembers the order in
// which keys were first seen.
type store struct {
	layout *layout
	index  map[string]*Group
	order  []*Group
}

func newStore(l *layout, capacity int) *store {
	return &store{
		layout: l,
		index:  make(map[string]*Group, capacity),
		order:  make([]*Group, 0, capacity),
	}
}

func (s *store) lookup(encoded []byte) (*Group, bool) {
	g, ok := s.index[string(encoded)]
	return g, ok
}

// route returns the group of encoded, creating it with fresh accumulators on
// a miss. encoded and key are copied only when a group is created, the key
// values deeply, so later changes to the record cannot reach the group.
func (s *store) route(encoded []byte, key []interface{}) (g *Group, created bool) {
	if g, ok := s.index[string(encoded)]; ok {
		return g, false
	}
	functions := make([]aggregator.AggregatorFunction, len(s.layout.templates))
	for i, tmpl := range s.layout.templates {
		functions[i] = tmpl.New()
	}
	owned := make([]interface{}, len(key))
	for i, v := range key {
		owned[i] = s.layout.enc.Clone(v)
	}
	g = newGroup(s.layout, string(encoded), owned, functions)
	s.index[g.encoded] = g
	s.order = append(s.order, g)
	return g, true
}

// ingest feeds values, aligned with the layout aliases, into g.
func (s *store) ingest(g *Group, values []aggregator.Value) {
	for i, fn := range g.functions {
		fn.Add(values[i])
	}
	g.records++
}

func (s *store) snapshot() []*Group {
	out := make([]*Group, len(s.order))
	copy(out, s.order)
	return out
}

func (s *store) len() int { return len(s.order) }
