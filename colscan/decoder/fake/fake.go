// Package fake provides test doubles for colscan/reader's Opener,
// AsyncOpener and RawReader: a single hand-written fake object per
// interface rather than a mocking framework. It lets tests control
// exactly which footer a path resolves to, inject per-path open
// failures, and observe bind order without touching a filesystem or
// network.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/reader"
)

// Opener is a reader.Opener and reader.AsyncOpener backed by an in-memory
// table of footers, keyed by path/uri.
type Opener struct {
	Footers map[string]*format.Footer
	Fail    map[string]error

	mu        sync.Mutex
	OpenOrder []string // records the order Open/OpenAsync were called, for asserting bind ordering
}

func New() *Opener {
	return &Opener{Footers: map[string]*format.Footer{}, Fail: map[string]error{}}
}

func (o *Opener) Open(path string) (reader.RawReader, error) {
	return o.open(path)
}

func (o *Opener) OpenAsync(ctx context.Context, uri string, opts reader.CloudOptions) (reader.RawReader, error) {
	return o.open(uri)
}

func (o *Opener) open(path string) (reader.RawReader, error) {
	o.mu.Lock()
	o.OpenOrder = append(o.OpenOrder, path)
	o.mu.Unlock()

	if err, ok := o.Fail[path]; ok {
		return nil, err
	}
	footer, ok := o.Footers[path]
	if !ok {
		return nil, fmt.Errorf("fake: no footer registered for %q", path)
	}
	return &rawReader{footer: footer}, nil
}

type rawReader struct {
	footer *format.Footer
}

func (r *rawReader) Footer(ctx context.Context) (*format.Footer, error) {
	return r.footer, nil
}

func (r *rawReader) Close() error { return nil }

// FileFooter builds a single-row-group footer spanning numRows, with a
// field per name. Every field is an int64 column, adequate for the
// property tests that only need row counts and row-index/slice behavior
// to line up; tests that need specific column types build a *format.Footer
// directly instead.
func FileFooter(numRows int64, columnNames ...string) *format.Footer {
	return FileFooterMissing(numRows, columnNames, nil)
}

// FileFooterMissing is FileFooter, but omitting the columns in missing
// from the footer's schema (used to exercise the allow-missing-columns
// policy).
func FileFooterMissing(numRows int64, columnNames []string, missing []string) *format.Footer {
	skip := map[string]bool{}
	for _, m := range missing {
		skip[m] = true
	}

	var fields []arrow.Field
	for _, name := range columnNames {
		if skip[name] {
			continue
		}
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64})
	}

	return &format.Footer{
		Schema:  arrow.NewSchema(fields, nil),
		NumRows: numRows,
		RowGroups: []format.RowGroupStats{
			{NumRows: numRows, Columns: map[string]format.ColumnStats{}},
		},
	}
}
