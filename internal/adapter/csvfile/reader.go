package csvfile

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/frankjungdss/repdata-project2/internal/domain"
)

// Column names consumed from the source file header. The file carries 37
// columns; everything else is ignored.
const (
	colEventType         = "EVTYPE"
	colBeginDate         = "BGN_DATE"
	colFatalities        = "FATALITIES"
	colInjuries          = "INJURIES"
	colPropertyDamage    = "PROPDMG"
	colPropertyMagnitude = "PROPDMGEXP"
	colCropDamage        = "CROPDMG"
	colCropMagnitude     = "CROPDMGEXP"
)

var requiredColumns = []string{
	colEventType,
	colBeginDate,
	colFatalities,
	colInjuries,
	colPropertyDamage,
	colPropertyMagnitude,
	colCropDamage,
	colCropMagnitude,
}

var errMissingField = errors.New("row has no value for column")

// Reader streams data rows from a storm-events CSV file. The file may be
// plain, gzip-compressed (.gz), or bzip2-compressed (.bz2, the distribution
// format of StormData.csv.bz2). Columns are resolved by header name, never
// by position, so reordered or additional columns in future extracts are
// harmless.
// It implements pipeline.RowSource.
type Reader struct {
	file    *os.File
	csv     *csv.Reader
	columns map[string]int
	line    int
}

// Open opens path, routes it through the right decompressor, and reads the
// header row. The returned Reader must be closed by the caller.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	var src io.Reader = bufio.NewReaderSize(f, 1<<20)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2":
		src = bzip2.NewReader(src)
	case ".gz":
		gz, err := gzip.NewReader(src)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip input: %w", err)
		}
		src = gz
	}

	cr := csv.NewReader(src)
	cr.LazyQuotes = true    // remark fields carry stray quotes
	cr.FieldsPerRecord = -1 // ragged rows become malformed records, not hard stops
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			f.Close()
			return nil, fmt.Errorf("input is missing column %s", required)
		}
	}

	return &Reader{file: f, csv: cr, columns: columns}, nil
}

// Next returns the next data row. Lines count from 1 and exclude the header.
// A row too short to carry every required column comes back as a
// *domain.MalformedRecordError so the pipeline can apply its skip-or-abort
// policy; any other error is an I/O or CSV structure failure.
func (r *Reader) Next(ctx context.Context) (domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawRow{}, err
	}

	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawRow{}, io.EOF
	}
	if err != nil {
		return domain.RawRow{}, fmt.Errorf("read csv row %d: %w", r.line+1, err)
	}
	r.line++

	row := domain.RawRow{Line: r.line}
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{colEventType, &row.EventType},
		{colBeginDate, &row.BeginDate},
		{colFatalities, &row.Fatalities},
		{colInjuries, &row.Injuries},
		{colPropertyDamage, &row.PropertyDamage},
		{colPropertyMagnitude, &row.PropertyMagnitude},
		{colCropDamage, &row.CropDamage},
		{colCropMagnitude, &row.CropMagnitude},
	} {
		idx := r.columns[field.name]
		if idx >= len(record) {
			return domain.RawRow{}, &domain.MalformedRecordError{
				Line:  r.line,
				Field: field.name,
				Err:   errMissingField,
			}
		}
		*field.dst = record[idx]
	}
	return row, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
