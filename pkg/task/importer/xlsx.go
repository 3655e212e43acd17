package importer

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook. Date cells come back as
// YYYY-MM-DD whether they were typed as text or stored as Excel dates.
func ParseXLSX(r io.Reader) ([]Row, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	recs, err := x.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	cols, err := findColumns(recs[0])
	if err != nil {
		return nil, err
	}
	var out []Row
	for i, rec := range recs[1:] {
		row, ok := cols.row(i+2, rec)
		if !ok {
			continue
		}
		row.Date = excelDate(row.Date)
		out = append(out, row)
	}
	return out, nil
}

// excelDate turns a raw serial like "45726" into "2025-03-10"; anything
// else is returned for the caller to validate.
func excelDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if t, err := time.Parse("2006/01/02", v); err == nil {
			return t.Format("2006-01-02")
		}
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
