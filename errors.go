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
	"errors"

	"github.com/rulego/groupagg/schema"
)

var (
	// ErrProtocol is returned when an aggregate function is registered after
	// the engine sealed.
	ErrProtocol = errors.New("protocol violation")
	// ErrSchema is returned when a record type cannot be resolved into keys
	// and bindings.
	ErrSchema = schema.ErrSchema
	// ErrUnknownAlias is returned when a result is read under an alias that
	// no binding declared.
	ErrUnknownAlias = errors.New("unknown alias")
	// ErrRuntime is returned when a record cannot be processed or a result
	// cannot be read as the requested type.
	ErrRuntime = errors.New("runtime error")
)
