// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/sjdillon/qthena/models"
)

// Format selects how results are written to standard output.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat validates name. An empty name picks a table for terminals and
// CSV otherwise.
func ParseFormat(name string, tty bool) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		if tty {
			return FormatTable, nil
		}
		return FormatCSV, nil
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, csv or json)", ErrInvalidFormat, name)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ── tables ───────────────────────────────────────────────────────────────────

func columnNames(cols []models.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func tableCells(rows []models.Row) [][]string {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			if v.Valid {
				cells[i][j] = v.String
			} else {
				cells[i][j] = nullCell
			}
		}
	}
	return cells
}

func newTable(headers []string, cells [][]string, isNull func(row, col int) bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case isNull != nil && isNull(row, col):
				return nullStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(cells...)
}

// writeTable renders rs as a bordered table followed by a summary line.
func writeTable(w io.Writer, rs *models.ResultSet) error {
	t := newTable(columnNames(rs.Columns), tableCells(rs.Rows), func(row, col int) bool {
		return row >= 0 && row < len(rs.Rows) && col < len(rs.Rows[row]) && !rs.Rows[row][col].Valid
	})

	summary := fmt.Sprintf("%d rows, %s scanned, execution %s",
		len(rs.Rows), formatBytes(rs.DataScannedBytes), rs.ExecutionID)

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), footerStyle.Render(summary))
	return err
}

// writeHistoryTable renders execution records newest first.
func writeHistoryTable(w io.Writer, records []models.ExecutionRecord) error {
	headers := []string{"EXECUTION", "STATE", "SUBMITTED", "DURATION", "ROWS", "POLLS", "QUERY", "MESSAGE"}
	cells := make([][]string, len(records))
	for i, rec := range records {
		cells[i] = []string{
			rec.ExecutionID,
			rec.State.String(),
			rec.SubmittedAt.Local().Format(time.DateTime),
			rec.FinishedAt.Sub(rec.SubmittedAt).Round(time.Millisecond).String(),
			fmt.Sprint(rec.RowCount),
			fmt.Sprint(rec.PollCount),
			truncate(oneLine(rec.Query), 60),
			truncate(rec.Message, 60),
		}
	}

	_, err := fmt.Fprintln(w, newTable(headers, cells, nil).Render())
	return err
}

// ── csv ──────────────────────────────────────────────────────────────────────

// csvWriter streams rows as CSV. The header is written before the first row,
// or by Flush when there were none. NULL is written as an empty field.
type csvWriter struct {
	w       *csv.Writer
	columns []string
	started bool
}

func newCSVWriter(w io.Writer, cols []models.Column) *csvWriter {
	return &csvWriter{w: csv.NewWriter(w), columns: columnNames(cols)}
}

func (c *csvWriter) header() error {
	if c.started {
		return nil
	}
	c.started = true
	return c.w.Write(c.columns)
}

func (c *csvWriter) Write(row models.Row) error {
	if err := c.header(); err != nil {
		return err
	}
	return c.w.Write(row.Strings())
}

func (c *csvWriter) Flush() error {
	if err := c.header(); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func writeCSV(w io.Writer, rs *models.ResultSet) error {
	cw := newCSVWriter(w, rs.Columns)
	for _, row := range rs.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func writeHistoryCSV(w io.Writer, records []models.ExecutionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"execution_id", "state", "submitted_at", "finished_at", "row_count", "poll_count", "workgroup", "query", "message",
	}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{
			rec.ExecutionID,
			rec.State.String(),
			rec.SubmittedAt.UTC().Format(time.RFC3339Nano),
			rec.FinishedAt.UTC().Format(time.RFC3339Nano),
			fmt.Sprint(rec.RowCount),
			fmt.Sprint(rec.PollCount),
			rec.Workgroup,
			rec.Query,
			rec.Message,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ── json ─────────────────────────────────────────────────────────────────────

// jsonResult is one line of JSON output. Rows hold null for SQL NULL.
type jsonResult struct {
	Query            string          `json:"query"`
	ExecutionID      string          `json:"execution_id,omitempty"`
	Columns          []models.Column `json:"columns,omitempty"`
	Rows             [][]*string     `json:"rows"`
	OutputLocation   string          `json:"output_location,omitempty"`
	DataScannedBytes int64           `json:"data_scanned_bytes,omitempty"`
	Error            string          `json:"error,omitempty"`
}

func newJSONResult(query string, rs *models.ResultSet, err error) jsonResult {
	out := jsonResult{Query: query}
	if err != nil {
		out.Error = Describe(err)
		return out
	}

	out.ExecutionID = rs.ExecutionID
	out.Columns = rs.Columns
	out.OutputLocation = rs.OutputLocation
	out.DataScannedBytes = rs.DataScannedBytes
	out.Rows = make([][]*string, len(rs.Rows))
	for i, row := range rs.Rows {
		out.Rows[i] = make([]*string, len(row))
		for j, v := range row {
			if v.Valid {
				s := v.String
				out.Rows[i][j] = &s
			}
		}
	}
	return out
}

// writeJSON writes v as one line of JSON.
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
