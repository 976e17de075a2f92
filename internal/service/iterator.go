// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"iter"
	"sync"

	"github.com/sjdillon/qthena/models"
)

// RowIterator walks the rows of a succeeded execution page by page. It is
// forward-only and cannot be restarted; it is not safe for concurrent use.
//
//	it, err := runner.Stream(ctx, spec)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next(ctx) {
//		row := it.Row()
//	}
//	if err := it.Err(); err != nil { ... }
type RowIterator struct {
	x *execution

	columns []models.Column
	page    []models.Row
	pos     int
	token   string
	started bool
	done    bool

	row   models.Row
	count int
	err   error

	closed    bool
	closeOnce sync.Once
}

func newRowIterator(x *execution) *RowIterator {
	return &RowIterator{x: x}
}

// ExecutionID returns the remote id of the execution being read.
func (it *RowIterator) ExecutionID() string {
	return it.x.exec.ID
}

// Next advances to the next row, fetching the next page when the current one
// is used up. It returns false at the end of the result or on error.
func (it *RowIterator) Next(ctx context.Context) bool {
	for {
		if it.closed || it.err != nil {
			return false
		}
		if it.pos < len(it.page) {
			it.row = it.page[it.pos]
			it.pos++
			it.count++
			return true
		}
		if it.done {
			return false
		}

		page, err := it.x.fetch(ctx, it.token)
		if err != nil {
			it.err = err
			return false
		}

		if !it.started {
			it.columns = page.Columns
			it.started = true
		}
		it.page, it.pos = page.Rows, 0
		it.token = page.NextToken
		it.done = page.NextToken == ""
	}
}

// Row returns the current row. It is valid after Next returned true.
func (it *RowIterator) Row() models.Row {
	return it.row
}

// Columns returns the result columns once the first page has been fetched.
func (it *RowIterator) Columns() []models.Column {
	return it.columns
}

// Err returns the error that stopped iteration, if any.
func (it *RowIterator) Err() error {
	if it.err == nil && it.closed && (!it.done || it.pos < len(it.page)) {
		return ErrIteratorClosed
	}
	return it.err
}

// All returns the remaining rows as a sequence. A fetch error is yielded
// once as the last element.
func (it *RowIterator) All(ctx context.Context) iter.Seq2[models.Row, error] {
	return func(yield func(models.Row, error) bool) {
		for it.Next(ctx) {
			if !yield(it.Row(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains the iterator into a ResultSet.
func (it *RowIterator) Collect(ctx context.Context) (*models.ResultSet, error) {
	var rows []models.Row
	for it.Next(ctx) {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Row{}
	}

	return &models.ResultSet{
		ExecutionID:      it.x.exec.ID,
		Columns:          it.columns,
		Rows:             rows,
		OutputLocation:   it.x.exec.ResultLocation,
		DataScannedBytes: it.x.exec.Status.DataScannedBytes,
	}, nil
}

// Close stops the iteration and records the execution outcome. It is safe to
// call more than once.
func (it *RowIterator) Close() error {
	it.closeOnce.Do(func() {
		it.x.finish(context.Background(), it.count, it.err)
		it.closed = true
	})
	return nil
}
