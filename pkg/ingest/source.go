package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// rowSource is a finite sequence of row chunks over one input file. A
// source is consumed exactly once; the ingestor decides the chunk
// boundary and flushes output after every chunk.
type rowSource interface {
	Columns() []string
	// Next returns up to limit rows, or io.EOF once the source is
	// exhausted. Rows are padded to the column count.
	Next(limit int) ([][]string, error)
	Close() error
}

// newDelimitedSource parses CSV content, degrading to line mode when the
// structured parse fails (malformed quoting, ragged rows). The degrade
// path is a tolerance policy for noisy real-world exports, not an error.
func newDelimitedSource(content []byte) (rowSource, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	if err := validateCSV(text); err != nil {
		return newLineSourceFromText(text), nil
	}
	return newCSVSource(text)
}

func validateCSV(text string) error {
	r := newCSVReader(text)
	for {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func newCSVReader(text string) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r
}

type csvSource struct {
	reader  *csv.Reader
	columns []string
}

func newCSVSource(text string) (*csvSource, error) {
	r := newCSVReader(text)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	return &csvSource{reader: r, columns: header}, nil
}

func (s *csvSource) Columns() []string {
	return s.columns
}

func (s *csvSource) Next(limit int) ([][]string, error) {
	var rows [][]string
	for len(rows) < limit {
		record, err := s.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, padRow(record, len(s.columns)))
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	return rows, nil
}

func (s *csvSource) Close() error {
	return nil
}

// newLineSource treats every non-blank line as one message in a single
// "text" column.
func newLineSource(content []byte) (rowSource, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}
	return newLineSourceFromText(text), nil
}

func newLineSourceFromText(text string) *lineSource {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return &lineSource{lines: lines}
}

type lineSource struct {
	lines []string
	pos   int
}

func (s *lineSource) Columns() []string {
	return []string{"text"}
}

func (s *lineSource) Next(limit int) ([][]string, error) {
	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}
	end := s.pos + limit
	if end > len(s.lines) {
		end = len(s.lines)
	}
	rows := make([][]string, 0, end-s.pos)
	for _, ln := range s.lines[s.pos:end] {
		rows = append(rows, []string{ln})
	}
	s.pos = end
	return rows, nil
}

func (s *lineSource) Close() error {
	return nil
}

// newSpreadsheetSource reads the first sheet of an xlsx workbook through
// excelize's streaming row iterator. The first row is the header.
func newSpreadsheetSource(content []byte) (rowSource, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("spreadsheet is empty")
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	return &xlsxSource{file: f, rows: rows, columns: header}, nil
}

type xlsxSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	columns []string
}

func (s *xlsxSource) Columns() []string {
	return s.columns
}

func (s *xlsxSource) Next(limit int) ([][]string, error) {
	var out [][]string
	for len(out) < limit && s.rows.Next() {
		cells, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}
		out = append(out, padRow(cells, len(s.columns)))
	}
	if len(out) == 0 {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return out, nil
}

func (s *xlsxSource) Close() error {
	s.rows.Close()
	return s.file.Close()
}

func padRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}
