// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"errors"
	"fmt"
)

var (
	// ErrRagged is returned when the rows passed to NewTable differ in width.
	ErrRagged = errors.New("rows are not rectangular")
	// ErrTextLength is returned when a non-empty text column does not have
	// one entry per numeric row.
	ErrTextLength = errors.New("text column length does not match row count")
)

// Table is the storage underneath every message type: timestamp-first rows
// of float64 plus an optional text column aligned row-for-row.
//
// Column 0 is the timestamp in microseconds. Tables are never modified after
// construction; transforms build new tables.
type Table struct {
	width int
	rows  [][]float64
	text  []string
}

// EmptyTable returns a table with no rows and the given width.
func EmptyTable(width int) Table {
	return Table{width: width}
}

// NewTable builds a table from rows. The rows are used as-is, callers must
// not modify them afterwards. width is taken from the first row, or from
// the width argument when rows is empty.
func NewTable(width int, rows [][]float64, text []string) (Table, error) {
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for i, r := range rows {
		if len(r) != width {
			return Table{}, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(r), width, ErrRagged)
		}
	}
	if len(text) > 0 && len(text) != len(rows) {
		return Table{}, fmt.Errorf("%d text entries for %d rows: %w", len(text), len(rows), ErrTextLength)
	}
	if len(text) == 0 {
		text = nil
	}
	return Table{width: width, rows: rows, text: text}, nil
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Width returns the number of numeric columns, timestamp included.
func (t Table) Width() int { return t.width }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.rows) == 0 }

// Row returns row i. The slice aliases the table storage.
func (t Table) Row(i int) []float64 { return t.rows[i] }

// Rows returns all rows. The slices alias the table storage.
func (t Table) Rows() [][]float64 { return t.rows }

// Text returns the text column, nil for numeric-only tables.
func (t Table) Text() []string { return t.text }

// HasText reports whether the table carries a text column.
func (t Table) HasText() bool { return len(t.text) > 0 }

// Timestamp returns column 0.
func (t Table) Timestamp() []float64 { return t.Column(0) }

// Column copies column c into a new slice.
func (t Table) Column(c int) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[c]
	}
	return out
}

// Columns returns columns [c, c+n) of every row. Each returned row is a
// sub-slice of the table storage.
func (t Table) Columns(c, n int) [][]float64 {
	out := make([][]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[c : c+n : c+n]
	}
	return out
}

// First returns the first timestamp.
func (t Table) First() (float64, bool) {
	if len(t.rows) == 0 {
		return 0, false
	}
	return t.rows[0][0], true
}

// Last returns the last timestamp.
func (t Table) Last() (float64, bool) {
	if len(t.rows) == 0 {
		return 0, false
	}
	return t.rows[len(t.rows)-1][0], true
}

// filter keeps the rows for which keep returns true.
func (t Table) filter(keep func(ts float64) bool) Table {
	if len(t.rows) == 0 {
		return t
	}
	rows := make([][]float64, 0, len(t.rows))
	var text []string
	if t.HasText() {
		text = make([]string, 0, len(t.text))
	}
	for i, r := range t.rows {
		if !keep(r[0]) {
			continue
		}
		rows = append(rows, r)
		if text != nil {
			text = append(text, t.text[i])
		}
	}
	if len(rows) == 0 {
		text = nil
	}
	return Table{width: t.width, rows: rows, text: text}
}

// shiftTime subtracts t0 from column 0 and leaves other columns untouched.
func (t Table) shiftTime(t0 float64) Table {
	if len(t.rows) == 0 {
		return t
	}
	rows := make([][]float64, len(t.rows))
	for i, r := range t.rows {
		row := make([]float64, len(r))
		copy(row, r)
		row[0] -= t0
		rows[i] = row
	}
	return Table{width: t.width, rows: rows, text: t.text}
}

// message seals the Message interface to the views in this package.
func (Table) message() {}
