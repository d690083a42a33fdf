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

import "fmt"

// State is the lifecycle phase of an Engine.
type State int

const (
	// Open engines accept function registrations and have no groups.
	Open State = iota
	// Sealed engines are aggregating. The function set is frozen.
	Sealed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Sealed:
		return "sealed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type event int

const (
	eventRegister event = iota
	eventAggregate
)

func (e event) String() string {
	switch e {
	case eventRegister:
		return "register"
	case eventAggregate:
		return "aggregate"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// transition is the only place the engine state changes. There is no edge
// from Sealed back to Open.
func transition(s State, ev event) (State, error) {
	switch {
	case s == Open && ev == eventRegister:
		return Open, nil
	case ev == eventAggregate && (s == Open || s == Sealed):
		return Sealed, nil
	case s == Sealed && ev == eventRegister:
		return Sealed, fmt.Errorf("%w: cannot register aggregate functions after aggregation started", ErrProtocol)
	}
	return s, fmt.Errorf("%w: no transition from %s on %s", ErrProtocol, s, ev)
}
