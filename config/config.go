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

// Package config loads engine settings from a YAML file and GROUPAGG_
// environment variables and turns them into engine options.
//
//	log:
//	  level: info        # debug|info|warn|error|off
//	  output: stdout     # stdout|stderr|discard
//	engine:
//	  capacity: 0
//	  filter: ""         # expr-lang predicate over each record
//	  functions: []      # stddev, median, decimal_sum
//
// Environment variables override the file, with a double underscore
// separating levels: GROUPAGG_LOG__LEVEL=debug sets log.level.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rulego/groupagg"
	"github.com/rulego/groupagg/aggregator"
	"github.com/rulego/groupagg/condition"
	"github.com/rulego/groupagg/logger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GROUPAGG_"

// Config is the top-level configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Engine EngineConfig `koanf:"engine"`
}

// LogConfig selects the engine logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Output string `koanf:"output"`
}

// EngineConfig holds engine settings.
type EngineConfig struct {
	Capacity  int      `koanf:"capacity"`
	Filter    string   `koanf:"filter"`
	Functions []string `koanf:"functions"`
}

var defaults = map[string]interface{}{
	"log.level":        "info",
	"log.output":       "stdout",
	"engine.capacity":  0,
	"engine.filter":    "",
	"engine.functions": []string{},
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		// defaults alone always load
		panic(err)
	}
	return cfg
}

// Load reads path, when not empty, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, withEnv bool) (*Config, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if withEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Engine.Functions = splitList(cfg.Engine.Functions)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks every setting without building anything.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if _, err := c.output(); err != nil {
		return err
	}
	if c.Engine.Capacity < 0 {
		return fmt.Errorf("invalid engine capacity %d: must not be negative", c.Engine.Capacity)
	}
	for _, name := range c.Engine.Functions {
		if _, err := aggregator.Optional(name); err != nil {
			return fmt.Errorf("invalid engine function: %w", err)
		}
	}
	return nil
}

func (c *Config) output() (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Output)) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return nil, nil
	}
	return nil, fmt.Errorf("invalid log output %q: expected stdout, stderr or discard", c.Log.Output)
}

// Options converts the configuration into engine options. The filter is
// compiled here, so a bad expression fails before any engine is created.
func (c *Config) Options() ([]groupagg.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := logger.ParseLevel(c.Log.Level)
	out, _ := c.output()

	var opts []groupagg.Option
	if out == nil {
		opts = append(opts, groupagg.WithDiscardLog())
	} else {
		opts = append(opts, groupagg.WithLogOutput(out, level))
	}
	if c.Engine.Capacity > 0 {
		opts = append(opts, groupagg.WithCapacity(c.Engine.Capacity))
	}
	if strings.TrimSpace(c.Engine.Filter) != "" {
		cond, err := condition.NewExprCondition(c.Engine.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid engine filter: %w", err)
		}
		opts = append(opts, groupagg.WithFilter(cond))
	}
	if len(c.Engine.Functions) > 0 {
		fns := make([]aggregator.AggregatorFunction, 0, len(c.Engine.Functions))
		for _, name := range c.Engine.Functions {
			fn, _ := aggregator.Optional(name)
			fns = append(fns, fn)
		}
		opts = append(opts, groupagg.WithFunctions(fns...))
	}
	return opts, nil
}

// NewEngine is a shortcut for groupagg.New(c.Options()...).
func (c *Config) NewEngine() (*groupagg.Engine, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return groupagg.New(opts...), nil
}
