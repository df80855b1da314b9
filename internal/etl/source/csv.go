// internal/etl/source/csv.go
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVReader yields the rows of a CSV export in file order, each exposed
// as a name-keyed Record. The first line is the header.
type CSVReader struct {
	file   *os.File
	reader *csv.Reader
	header []string
	row    int
}

// OpenCSV opens a CSV source file and reads its header.
func OpenCSV(path string) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &CSVReader{file: f, reader: r, header: header}, nil
}

// Read returns the next record, or io.EOF when the file is exhausted.
// Rows shorter than the header leave the trailing fields absent.
func (c *CSVReader) Read() (Record, error) {
	fields, err := c.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d: %w", c.row+1, err)
	}
	c.row++

	rec := make(Record, len(c.header))
	for i, name := range c.header {
		if i < len(fields) {
			rec[name] = fields[i]
		}
	}
	return rec, nil
}

// Row returns the number of data rows read so far.
func (c *CSVReader) Row() int {
	return c.row
}

// Close releases the underlying file.
func (c *CSVReader) Close() error {
	return c.file.Close()
}
