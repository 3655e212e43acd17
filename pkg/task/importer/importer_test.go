package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Task Title", "Worker", "Scheduled Date"},
		{"Irrigation - Zone 1", "Anil", "2025-03-10"},
		{"", "", ""},
		{"Pest check Zone 2", 3, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"Sowing Zone 3", "sunita", "2025/03/12"},
	})

	rows, err := Parse("plan.XLSX", buf)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Line: 2, Title: "Irrigation - Zone 1", Assignee: "Anil", Date: "2025-03-10"},
		{Line: 4, Title: "Pest check Zone 2", Assignee: "3", Date: "2025-03-11"},
		{Line: 5, Title: "Sowing Zone 3", Assignee: "sunita", Date: "2025-03-12"},
	}, rows)
}

func TestParseXLSX_MissingColumns(t *testing.T) {
	buf := workbook(t, [][]any{{"Title", "Date"}, {"x", "2025-03-10"}})
	_, err := ParseXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("title,assignee,date\n"))
	assert.Error(t, err)
}

func TestParseHTML(t *testing.T) {
	page := `<html><body>
	<p>March plan</p>
	<table>
	  <tr><th>Title</th><th>Assigned to</th><th>Date</th></tr>
	  <tr><td>Weeding
	      Zone 1</td><td>2</td><td>2025-03-10</td></tr>
	  <tr><td></td><td></td><td></td></tr>
	  <tr><td>Harvest Zone 3</td><td>Anil</td></tr>
	</table>
	<table><tr><td>ignored</td></tr></table>
	</body></html>`

	rows, err := Parse("plan.html", strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Line: 2, Title: "Weeding Zone 1", Assignee: "2", Date: "2025-03-10"},
		{Line: 4, Title: "Harvest Zone 3", Assignee: "Anil", Date: ""},
	}, rows)
}

func TestParseHTML_NoTable(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<p>nothing here</p>"))
	assert.Error(t, err)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse("plan.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
