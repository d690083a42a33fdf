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

package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExprCondition(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{"comparison", "age > 18", false},
		{"logical", "age > 18 && name == 'John'", false},
		{"null check", "is_null(name)", false},
		{"like", "like_match(name, 'John%')", false},
		{"invalid", "age >", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := NewExprCondition(tt.expression)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cond)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, cond.String())
		})
	}
}

type order struct {
	SKU string
	Qty int
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		env        interface{}
		expected   bool
	}{
		{"greater", "age > 18", map[string]interface{}{"age": 25}, true},
		{"less or equal", "age <= 18", map[string]interface{}{"age": 25}, false},
		{"and", "age > 18 && active == true", map[string]interface{}{"age": 25, "active": false}, false},
		{"or", "age < 18 || vip == true", map[string]interface{}{"age": 25, "vip": true}, true},
		{"struct record", "Qty > 1 && like_match(SKU, 'A-%')", order{SKU: "A-17", Qty: 2}, true},
		{"struct pointer", "Qty > 1", &order{Qty: 1}, false},
		{"is_null missing", "is_null(email)", map[string]interface{}{}, true},
		{"is_not_null", "is_not_null(email)", map[string]interface{}{"email": "a@b.c"}, true},
		{"runtime error is false", "like_match(n, 'x')", map[string]interface{}{"n": 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := NewExprCondition(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cond.Evaluate(tt.env))
		})
	}
}

func TestLikeMatch(t *testing.T) {
	tests := []struct {
		text, pattern string
		expected      bool
	}{
		{"hello", "hello", true},
		{"hello", "h%", true},
		{"hello", "%llo", true},
		{"hello", "%l%", true},
		{"hello", "h_llo", true},
		{"hello", "h__lo", true},
		{"hello", "h_lo", false},
		{"hello", "%x%", false},
		{"", "%", true},
		{"", "", true},
		{"a", "", false},
		{"abcbc", "a%bc", true},
		{"mississippi", "m%iss%pi", true},
		{"日本語", "日_語", true},
		{"日本語", "%語", true},
	}
	for _, tt := range tests {
		t.Run(tt.text+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, LikeMatch(tt.text, tt.pattern))
		})
	}
}
