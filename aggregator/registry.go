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
	"errors"
	"fmt"
	"strings"
)

// Registry maps function names to templates. Names are case-insensitive.
// A Registry is owned by one engine and is not safe for concurrent use.
type Registry struct {
	functions map[string]AggregatorFunction
	names     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{functions: make(map[string]AggregatorFunction)}
}

// DefaultRegistry creates a registry holding count, sum, avg, min, max and
// distinct.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, fn := range []AggregatorFunction{NewCount(), NewSum(), NewAvg(), NewMin(), NewMax(), NewDistinct()} {
		_ = r.Register(fn)
	}
	return r
}

// Register adds a template under its Name.
func (r *Registry) Register(fn AggregatorFunction) error {
	if fn == nil {
		return errors.New("aggregator function cannot be nil")
	}
	name := strings.ToLower(strings.TrimSpace(fn.Name()))
	if name == "" {
		return fmt.Errorf("aggregator function %s has an empty name", DefaultAlias(fn))
	}
	if fn.Accepts() == 0 {
		return fmt.Errorf("aggregator function %s accepts no input kind", name)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("aggregator function %s already registered", name)
	}
	r.functions[name] = fn
	r.names = append(r.names, name)
	return nil
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (AggregatorFunction, bool) {
	fn, ok := r.functions[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int { return len(r.names) }
