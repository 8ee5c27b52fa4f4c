// Package tabular decodes uploaded spreadsheets into raw tables.
package tabular

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader dispatches on the file extension.
type Reader struct {
	// Sheet selects the worksheet by name; empty means the first sheet.
	Sheet string
}

var _ ports.TableReader = (*Reader)(nil)

// NewReader creates a reader that uses the first worksheet of workbooks.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes r according to the extension of filename.
func (rd *Reader) Read(ctx context.Context, filename string, r io.Reader) (domain.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return readCSV(ctx, r)
	case ".xlsx", ".xlsm":
		return readWorkbook(ctx, r, rd.Sheet)
	default:
		ext := filepath.Ext(filename)
		return domain.RawTable{}, apperrors.NewUnsupportedMediaError(
			fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, ext),
			fmt.Sprintf("Unsupported file format %q; upload a .csv or .xlsx file", ext),
		)
	}
}

func readCSV(ctx context.Context, r io.Reader) (domain.RawTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return domain.RawTable{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedInput, err)
		}
		records = append(records, rec)
	}
	return toTable(records), nil
}

// sniffDelimiter picks ';' or tab over ',' when the header line uses them more.
func sniffDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readWorkbook(ctx context.Context, r io.Reader, sheet string) (domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedInput, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.RawTable{}, apperrors.ErrEmptyInput
		}
		sheet = sheets[0]
	}

	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedInput, err)
	}
	return toTable(rows), nil
}

// toTable takes the first non-empty record as the header and sizes every
// data row to the header width.
func toTable(records [][]string) domain.RawTable {
	start := 0
	for start < len(records) && isBlank(records[start]) {
		start++
	}
	if start == len(records) {
		return domain.RawTable{}
	}

	headers := records[start]
	rows := make([][]string, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		row := make([]string, len(headers))
		copy(row, rec)
		rows = append(rows, row)
	}
	return domain.RawTable{Headers: headers, Rows: rows}
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
