// Package importer reads task sheets (title, assignee, date) that admins
// prepare outside the app, from an Excel workbook or an HTML table.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported file type: want .xlsx, .html or .htm")

// Row is one task line as written in the sheet. Line is the 1-based row
// number in the source, counting the header.
type Row struct {
	Line     int
	Title    string
	Assignee string
	Date     string
}

// Parse picks the reader by file extension.
func Parse(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseXLSX(r)
	case ".html", ".htm":
		return ParseHTML(r)
	}
	return nil, ErrUnsupportedFormat
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	for _, cut := range []string{" ", "-", "_"} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}

// columns maps header cells onto the three fields, accepting a few aliases.
type columns struct{ title, assignee, date int }

func findColumns(head []string) (columns, error) {
	hmap := map[string]int{}
	for i, h := range head {
		if _, dup := hmap[norm(h)]; !dup {
			hmap[norm(h)] = i
		}
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
	c := columns{
		title:    findAny("title", "task", "task title"),
		assignee: findAny("assignee", "assigned_user_id", "assigned to", "worker", "user"),
		date:     findAny("date", "scheduled_date", "scheduled date", "due"),
	}
	if c.title == -1 || c.assignee == -1 || c.date == -1 {
		return c, fmt.Errorf("sheet is missing required columns; found %v, need title, assignee, date", head)
	}
	return c, nil
}

func (c columns) row(line int, rec []string) (Row, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}
	r := Row{Line: line, Title: get(c.title), Assignee: get(c.assignee), Date: get(c.date)}
	blank := r.Title == "" && r.Assignee == "" && r.Date == ""
	return r, !blank
}
