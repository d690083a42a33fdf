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

package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTableFromSlice(t *testing.T) {
	var buf bytes.Buffer
	data := []map[string]interface{}{
		{"region": "north", "total": 12.5, "n": 3},
		{"region": "south", "total": 4.0, "n": 1},
	}
	PrintTableFromSlice(&buf, data, []string{"region", "total"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "+--------+-------+------+", lines[0])
	assert.Equal(t, "| region | total | n    |", lines[1])
	assert.Equal(t, "| north  | 12.5  | 3    |", lines[3])
	assert.Equal(t, "| south  | 4     | 1    |", lines[4])
	assert.Equal(t, "(2 rows)", lines[6])
}

func TestPrintTableWidthCountsRunes(t *testing.T) {
	var buf bytes.Buffer
	PrintTableFromSlice(&buf, []map[string]interface{}{{"city": "北京市"}}, nil)
	assert.Contains(t, buf.String(), "| 北京市 |")
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintTableFromSlice(&buf, nil, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestPrintTableBorder(t *testing.T) {
	var buf bytes.Buffer
	PrintTableBorder(&buf, []int{1, 3})
	assert.Equal(t, "+---+-----+\n", buf.String())

	buf.Reset()
	PrintTableBorder(&buf, nil)
	assert.Equal(t, "+\n", buf.String())
}

func TestFormatTableData(t *testing.T) {
	var buf bytes.Buffer
	FormatTableData(&buf, map[string]interface{}{"device": "sensor1"}, nil)
	assert.Contains(t, buf.String(), "| device  |")
	assert.Contains(t, buf.String(), "(1 rows)")

	buf.Reset()
	FormatTableData(&buf, map[string]interface{}{}, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())

	buf.Reset()
	FormatTableData(&buf, "string data", nil)
	assert.Equal(t, "Result: string data\n", buf.String())
}
