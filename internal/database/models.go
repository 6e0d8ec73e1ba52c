package database

import (
	"encoding/json"
	"time"
)

// NullDisplay is how a SQL NULL is rendered as text.
const NullDisplay = "NULL"

// Cell is one stringified value of a result row.
type Cell struct {
	Value string
	Valid bool
}

// Text returns a non-NULL cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null is the cell for SQL NULL.
var Null = Cell{}

// String renders the cell, NullDisplay for NULL.
func (c Cell) String() string {
	if !c.Valid {
		return NullDisplay
	}

	return c.Value
}

// MarshalJSON encodes NULL as null and everything else as a string.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(c.Value)
}

// QueryResult holds the outcome of one statement: either a row set or the
// number of rows affected.
type QueryResult struct {
	Columns     []string
	Rows        [][]Cell
	RowCount    int
	HasRows     bool
	UpdateCount int64
	Duration    time.Duration
}

// StringRows returns the rows with every cell rendered through Cell.String.
func (r *QueryResult) StringRows() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		line := make([]string, len(row))
		for j, c := range row {
			line[j] = c.String()
		}
		out[i] = line
	}

	return out
}
