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

// Package table renders result rows as an ASCII table.
package table

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// PrintTableFromSlice writes rows to w. Columns listed in fieldOrder come
// first in that order; any remaining columns follow alphabetically.
func PrintTableFromSlice(w io.Writer, data []map[string]interface{}, fieldOrder []string) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	columns = append(columns, rest...)

	cells := make([][]string, len(data))
	colWidths := make([]int, len(columns))
	for i, col := range columns {
		colWidths[i] = max(utf8.RuneCountInString(col), 4)
	}
	for r, row := range data {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			if v, exists := row[col]; exists {
				cells[r][i] = fmt.Sprintf("%v", v)
			}
			colWidths[i] = max(colWidths[i], utf8.RuneCountInString(cells[r][i]))
		}
	}

	PrintTableBorder(w, colWidths)
	printRow(w, columns, colWidths)
	PrintTableBorder(w, colWidths)
	for _, row := range cells {
		printRow(w, row, colWidths)
	}
	PrintTableBorder(w, colWidths)
	fmt.Fprintf(w, "(%d rows)\n", len(data))
}

func printRow(w io.Writer, values []string, widths []int) {
	var sb strings.Builder
	sb.WriteByte('|')
	for i, v := range values {
		sb.WriteByte(' ')
		sb.WriteString(v)
		sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v)))
		sb.WriteString(" |")
	}
	fmt.Fprintln(w, sb.String())
}

// PrintTableBorder writes a border line for columns of the given widths.
func PrintTableBorder(w io.Writer, columnWidths []int) {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, width := range columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteByte('+')
	}
	fmt.Fprintln(w, sb.String())
}

// FormatTableData writes a single row, a slice of rows, or any other value
// on its own line.
func FormatTableData(w io.Writer, result interface{}, fieldOrder []string) {
	switch v := result.(type) {
	case []map[string]interface{}:
		PrintTableFromSlice(w, v, fieldOrder)
	case map[string]interface{}:
		if len(v) == 0 {
			fmt.Fprintln(w, "(0 rows)")
			return
		}
		PrintTableFromSlice(w, []map[string]interface{}{v}, fieldOrder)
	default:
		fmt.Fprintf(w, "Result: %v\n", result)
	}
}
