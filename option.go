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
	"io"

	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/condition"
	"github.com/rulego/groupagg/logger"
	"github.com/rulego/groupagg/schema"
)

// Option configures an Engine in New.
type Option func(*Engine)

// WithLogger sets the logger of the engine. The default is logger.GetDefault().
//
// Example:
//
//	engine := groupagg.New(groupagg.WithLogger(logger.NewLogger(logger.DEBUG, os.Stderr)))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithLogLevel sets the level of the engine logger.
//
// Note that the default logger is shared, so the level applies to every user
// of logger.GetDefault().
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		e.logLevel = &level
	}
}

// WithLogOutput logs to output at level.
//
// Example:
//
//	logFile, _ := os.OpenFile("groupagg.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	engine := groupagg.New(groupagg.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) {
		e.log = logger.NewLogger(level, output)
	}
}

// WithDiscardLog disables logging for the engine.
func WithDiscardLog() Option {
	return func(e *Engine) {
		e.log = logger.NewDiscardLogger()
	}
}

// WithFilter drops records for which cond is false before they are routed.
// Dropped records are counted in Stats.Filtered.
//
// Example:
//
//	cond, _ := condition.NewExprCondition("Amount > 0")
//	engine := groupagg.New(groupagg.WithFilter(cond))
func WithFilter(cond condition.Condition) Option {
	return func(e *Engine) {
		e.filter = cond
	}
}

// WithCapacity presizes the group index for about n groups.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithFunctions registers extra aggregate functions. A function that cannot
// be registered is logged at ERROR and skipped.
//
// Example:
//
//	engine := groupagg.New(groupagg.WithFunctions(aggregator.NewStdDev(), aggregator.NewMedian()))
func WithFunctions(fns ...aggregator.AggregatorFunction) Option {
	return func(e *Engine) {
		e.extra = append(e.extra, fns...)
	}
}

// WithDefinition registers an explicit schema for the type of sample, like
// Engine.Define. A definition that cannot be registered is logged at ERROR.
func WithDefinition(sample interface{}, def schema.Definition) Option {
	return func(e *Engine) {
		e.definitions = append(e.definitions, definition{sample: sample, def: def})
	}
}
