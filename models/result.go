// SPDX-License-Identifier: Apache-2.0

package models

import "database/sql"

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Row holds one result row. Invalid entries are SQL NULL.
type Row []sql.NullString

// Strings renders the row with NULL as the empty string.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		if v.Valid {
			out[i] = v.String
		}
	}
	return out
}

// ResultPage is one page returned by the service.
type ResultPage struct {
	Columns []Column
	Rows    []Row
	// NextToken is empty on the last page.
	NextToken string
}

// ResultSet is a fully materialised query result.
type ResultSet struct {
	ExecutionID      string   `json:"execution_id"`
	Columns          []Column `json:"columns"`
	Rows             []Row    `json:"rows"`
	OutputLocation   string   `json:"output_location,omitempty"`
	DataScannedBytes int64    `json:"data_scanned_bytes"`
}
