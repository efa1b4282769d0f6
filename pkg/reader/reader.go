// Package reader turns workbook files into raw rows for the pipeline.
package reader

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
)

// DefaultSkipSheets are workbook sheets that carry no records: scratch
// sheets and superseded backdated data.
var DefaultSkipSheets = []string{"Sheet7", "Backdated"}

// Sheet is one worksheet's parsed rows, in source order.
type Sheet struct {
	Name string
	Rows []models.RawRow
}

// Reader produces sheets of raw rows from some spreadsheet source.
type Reader interface {
	Sheets(ctx context.Context) ([]Sheet, error)
}

// XLSXReader reads .xlsx workbooks. The first row of each sheet is the
// header row; every following row becomes a RawRow keyed by trimmed header.
type XLSXReader struct {
	path       string
	skipSheets map[string]struct{}
	logger     logging.Logger
}

func NewXLSXReader(path string, skipSheets []string, logger logging.Logger) *XLSXReader {
	if skipSheets == nil {
		skipSheets = DefaultSkipSheets
	}
	skip := make(map[string]struct{}, len(skipSheets))
	for _, name := range skipSheets {
		skip[name] = struct{}{}
	}
	return &XLSXReader{
		path:       path,
		skipSheets: skip,
		logger:     logger,
	}
}

func (r *XLSXReader) Sheets(ctx context.Context) ([]Sheet, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", r.path)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, skip := r.skipSheets[name]; skip {
			r.logger.WithContext(ctx).WithField("sheet", name).Debug("Skipping sheet")
			continue
		}

		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read sheet %s", name)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: parseRows(name, rows)})
	}
	return sheets, nil
}

// parseRows builds raw rows from a sheet's cell grid. SourceRow is the
// 1-indexed position in the original sheet, so the first data row is 2.
// Fully blank rows are dropped; short rows are fine, missing cells just
// stay absent.
func parseRows(sheetName string, rows [][]string) []models.RawRow {
	if len(rows) < 2 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	dataset := models.DatasetForSheet(sheetName)
	var parsed []models.RawRow
	for i, cells := range rows[1:] {
		values := make(map[string]string, len(headers))
		blank := true
		for j, cell := range cells {
			if j >= len(headers) {
				break
			}
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
			values[headers[j]] = cell
		}
		if blank {
			continue
		}
		parsed = append(parsed, models.RawRow{
			SourceDataset: dataset,
			SourceSheet:   sheetName,
			SourceRow:     i + 2,
			Values:        values,
		})
	}
	return parsed
}
