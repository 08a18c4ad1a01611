// Package tabular extracts a bounded text preview from CSV and Excel
// spreadsheets by rendering the leading rows back into delimited text.
package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/parseapp/docpreview/internal/core/domain"
)

const (
	// maxRows caps how much of a large file is read at all.
	maxRows = 200
	// renderRows is how many of those rows end up in the preview.
	renderRows = 20
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string, charLimit int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = readCSVRows(path)
	} else {
		rows, err = readSheetRows(path)
	}
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return domain.PreviewEmptyTable, nil
	}
	if len(rows) > renderRows {
		rows = rows[:renderRows]
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("render preview rows: %w", err)
	}
	return strings.TrimSpace(domain.TruncateChars(sb.String(), charLimit)), nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for len(rows) < maxRows {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readSheetRows streams the first sheet of an xlsx workbook.
func readSheetRows(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	iter, err := wb.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("iterate sheet %q: %w", sheets[0], err)
	}
	defer iter.Close()

	var rows [][]string
	for len(rows) < maxRows && iter.Next() {
		cols, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, cols)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scan sheet rows: %w", err)
	}
	return rows, nil
}
