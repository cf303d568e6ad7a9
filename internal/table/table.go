// Copyright (C) 2026 Ioannis Torakis <john.torakis@gmail.com>
// SPDX-License-Identifier: Elastic-2.0
//
// Licensed under the Elastic License 2.0.
// You may obtain a copy of the license at:
// https://www.elastic.co/licensing/elastic-license
//
// Use, modification, and redistribution permitted under the terms of the license,
// except for providing this software as a commercial service or product.

package table

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/olekukonko/tablewriter"
)

// TableOptions configures table rendering behavior
type TableOptions struct {
	Headers []string
	SortBy  int // Column index to sort by (0-based), -1 for no sorting
	GroupBy int // Column index to group by (0-based), -1 for no grouping
}

// Row represents a table row as a slice of strings
type Row []string

// NewTable creates a table writing to w with the given headers
func NewTable(w io.Writer, options TableOptions) *tablewriter.Table {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{}))

	headers := make([]any, len(options.Headers))
	for i, h := range options.Headers {
		headers[i] = h
	}
	table.Header(headers...)

	return table
}

// RenderTable renders rows to w, handling sorting and grouping. Nothing is
// written for an empty row set.
func RenderTable(w io.Writer, options TableOptions, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	if options.SortBy >= 0 && options.SortBy < len(options.Headers) {
		rows = append([]Row(nil), rows...)
		sort.SliceStable(rows, func(i, j int) bool {
			if options.SortBy >= len(rows[i]) || options.SortBy >= len(rows[j]) {
				return false
			}
			// Case-insensitive sort, stripping color codes
			a := stripansi.Strip(rows[i][options.SortBy])
			b := stripansi.Strip(rows[j][options.SortBy])
			return strings.ToLower(a) < strings.ToLower(b)
		})
	}

	if options.GroupBy >= 0 && options.GroupBy < len(options.Headers) {
		rows = groupRows(rows, options.GroupBy)
	}

	table := NewTable(w, options)

	data := make([][]any, len(rows))
	for i, row := range rows {
		data[i] = make([]any, len(row))
		for j, cell := range row {
			data[i][j] = cell
		}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to set table data: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// groupRows blanks the group column on rows repeating the previous group.
func groupRows(rows []Row, groupByColumn int) []Row {
	grouped := make([]Row, 0, len(rows))
	var lastGroupValue string

	for _, row := range rows {
		if groupByColumn >= len(row) {
			grouped = append(grouped, row)
			continue
		}

		currentGroupValue := stripansi.Strip(row[groupByColumn])
		if currentGroupValue == lastGroupValue && len(grouped) > 0 {
			newRow := make(Row, len(row))
			copy(newRow, row)
			newRow[groupByColumn] = ""
			grouped = append(grouped, newRow)
			continue
		}

		grouped = append(grouped, row)
		lastGroupValue = currentGroupValue
	}

	return grouped
}
