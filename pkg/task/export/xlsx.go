// Package export renders a month of the calendar as an Excel workbook for
// people who plan on paper.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
	"github.com/rajeev-sr/iPlanFarmHouse/pkg/schedule"
)

const (
	CalendarSheet = "Calendar"
	CarriedSheet  = "Carry forward"
)

var (
	calendarHeader = []any{"Date", "ID", "Title", "Type", "Assignee", "Status"}
	carriedHeader  = []any{"Scheduled", "ID", "Title", "Type", "Assignee"}
)

// MonthWorkbook writes one row per task in the month, then the tasks
// carried into it on a second sheet.
func MonthWorkbook(s schedule.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CalendarSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CarriedSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	rows := [][]any{calendarHeader}
	for _, d := range s.Dates() {
		for _, t := range s.Days[d] {
			rows = append(rows, []any{d.String(), t.ID, t.Title, schedule.TaskType(t.Title), t.AssigneeName(), t.Status})
		}
	}
	if err := writeRows(f, CalendarSheet, rows); err != nil {
		return nil, err
	}

	rows = [][]any{carriedHeader}
	for _, t := range s.Carried {
		rows = append(rows, carriedRow(t))
	}
	if err := writeRows(f, CarriedSheet, rows); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func carriedRow(t entities.Task) []any {
	return []any{t.ScheduledDate.String(), t.ID, t.Title, schedule.TaskType(t.Title), t.AssigneeName()}
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
