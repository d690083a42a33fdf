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

package keys

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

type celsius float64

type labelled struct {
	Name   string
	Tags   []string
	Attrs  map[string]int
	Origin *point
	hidden int
}

func encode(t *testing.T, e *Encoder, v interface{}) string {
	t.Helper()
	b, err := e.Append(nil, v)
	require.NoError(t, err)
	return string(b)
}

// TestEncoderMatchesDeepEqual compares every pair of a value corpus and checks
// that encodings collide exactly when reflect.DeepEqual says the values are equal.
func TestEncoderMatchesDeepEqual(t *testing.T) {
	corpus := []interface{}{
		nil,
		0, 1, -1, int64(1), int32(1), uint64(1), uint8(1),
		1.5, float32(1.5), celsius(1.5),
		"", "a", "ab", "b",
		true, false,
		[]int(nil), []int{}, []int{1}, []int{1, 2}, []int64{1, 2},
		[2]int{1, 2}, [2]int{2, 1},
		[]interface{}{1, "a"}, []interface{}{"a", 1}, []interface{}{int64(1), "a"},
		map[string]int{"a": 1, "b": 2}, map[string]int{"a": 1}, map[string]int(nil),
		point{1, 2}, point{2, 1}, &point{1, 2}, (*point)(nil),
		labelled{Name: "n", Tags: []string{"x"}, Attrs: map[string]int{"k": 1}},
		labelled{Name: "n", Tags: []string{"x"}, Attrs: map[string]int{"k": 2}},
		labelled{Name: "n", Tags: []string{"x"}, hidden: 1},
		labelled{Name: "n", Origin: &point{1, 2}},
	}
	e := NewEncoder()
	for i, a := range corpus {
		for j, b := range corpus {
			same := encode(t, e, a) == encode(t, e, b)
			assert.Equal(t, reflect.DeepEqual(a, b), same, "corpus[%d]=%#v corpus[%d]=%#v", i, a, j, b)
		}
	}
}

func TestEncoderStructuralCopies(t *testing.T) {
	e := NewEncoder()

	t.Run("maps ignore iteration order", func(t *testing.T) {
		a := map[string]int{}
		b := map[string]int{}
		for i := 0; i < 50; i++ {
			a[string(rune('a'+i%26))+string(rune('A'+i))] = i
		}
		for k, v := range a {
			b[k] = v
		}
		assert.Equal(t, encode(t, e, a), encode(t, e, b))
	})

	t.Run("distinct pointers to equal values", func(t *testing.T) {
		assert.Equal(t, encode(t, e, &point{3, 4}), encode(t, e, &point{3, 4}))
	})

	t.Run("nested slices", func(t *testing.T) {
		a := [][]string{{"x", "y"}, {"z"}}
		b := [][]string{{"x", "y"}, {"z"}}
		c := [][]string{{"x"}, {"y", "z"}}
		assert.Equal(t, encode(t, e, a), encode(t, e, b))
		assert.NotEqual(t, encode(t, e, a), encode(t, e, c))
	})
}

func TestEncoderFloats(t *testing.T) {
	e := NewEncoder()
	assert.Equal(t, encode(t, e, math.NaN()), encode(t, e, math.Float64frombits(0x7ff8000000000abc)))
	assert.Equal(t, encode(t, e, 0.0), encode(t, e, math.Copysign(0, -1)))
	assert.NotEqual(t, encode(t, e, math.Inf(1)), encode(t, e, math.Inf(-1)))
}

func TestEncoderTuple(t *testing.T) {
	e := NewEncoder()
	tuple := func(values ...interface{}) string {
		b, err := e.AppendTuple(nil, values)
		require.NoError(t, err)
		return string(b)
	}
	assert.NotEqual(t, tuple("a", "bc"), tuple("ab", "c"))
	assert.NotEqual(t, tuple(1), tuple(1, nil))
	assert.Equal(t, tuple(1, "x", []int{1}), tuple(1, "x", []int{1}))
	assert.NotEqual(t, tuple(), tuple(nil))
}

func TestEncoderErrors(t *testing.T) {
	e := NewEncoder()

	_, err := e.Append(nil, func() {})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = e.AppendTuple(nil, []interface{}{1, []interface{}{func() {}}})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "key position 1")

	type node struct {
		Next *node
	}
	loop := &node{}
	loop.Next = loop
	_, err = e.Append(nil, loop)
	assert.ErrorIs(t, err, ErrUnsupported)

	var nilFunc func()
	_, err = e.Append(nil, nilFunc)
	assert.NoError(t, err)
}

func TestCheckType(t *testing.T) {
	assert.NoError(t, CheckType(reflect.TypeOf("")))
	assert.NoError(t, CheckType(reflect.TypeOf(point{})))
	assert.ErrorIs(t, CheckType(reflect.TypeOf(func() {})), ErrUnsupported)
}

func TestHash(t *testing.T) {
	e := NewEncoder()
	a, err := e.AppendTuple(nil, []interface{}{"room1", 3})
	require.NoError(t, err)
	b, err := e.AppendTuple(nil, []interface{}{"room1", 3})
	require.NoError(t, err)
	c, err := e.AppendTuple(nil, []interface{}{"room2", 3})
	require.NoError(t, err)

	assert.Equal(t, Hash(a), Hash(b))
	assert.NotEqual(t, Hash(a), Hash(c))
}
