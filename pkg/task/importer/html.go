package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML reads the first <table>, e.g. a spreadsheet published to the
// web. The header is the first row, whether it uses <th> or <td>.
func ParseHTML(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no <table> found")
	}

	var recs [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var rec []string
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			rec = append(rec, strings.Join(strings.Fields(cell.Text()), " "))
		})
		recs = append(recs, rec)
	})
	if len(recs) == 0 {
		return nil, fmt.Errorf("table has no rows")
	}

	cols, err := findColumns(recs[0])
	if err != nil {
		return nil, err
	}
	var out []Row
	for i, rec := range recs[1:] {
		if row, ok := cols.row(i+2, rec); ok {
			out = append(out, row)
		}
	}
	return out, nil
}
