// Package legacycsv reads legacy mirror exports: comma-separated files whose
// first record is a header naming the fixed legacy field set.
package legacycsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/kin/internal/core/legacy"
	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/ports/primary"
)

const bom = "\ufeff"

// Source implements primary.RowSource over a CSV stream.
type Source struct {
	r      *csv.Reader
	header []string
	closer io.Closer
}

// NewSource reads the header from r and validates it against the required
// legacy fields. A missing field fails before any row is read.
func NewSource(r io.Reader) (*Source, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, outcome.Validation("source is empty: %s", strings.Join(legacy.RequiredFields, ", "))
	}
	if err != nil {
		return nil, outcome.Validation("failed to read header: %v", err)
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, bom))
	}
	if err := legacy.ValidateHeader(header); err != nil {
		return nil, err
	}

	return &Source{r: cr, header: header}, nil
}

// Open opens the file at path as a Source. Close releases the file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	src, err := NewSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// Fields returns the header as read.
func (s *Source) Fields() []string {
	return append([]string(nil), s.header...)
}

// Next returns the next record keyed by header name, or io.EOF. Short
// records leave trailing fields absent; extra cells are ignored.
func (s *Source) Next() (map[string]string, error) {
	for {
		record, err := s.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, outcome.Validation("malformed record: %v", err)
		}
		if blank(record) {
			continue
		}

		row := make(map[string]string, len(s.header))
		for i, name := range s.header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		return row, nil
	}
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Ensure Source implements the interface
var _ primary.RowSource = (*Source)(nil)
