package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"gamedex/internal"
)

// Probes for the title column, most specific first.
var titleProbes = []string{"game_title", "game title", "title", "game", "name"}

// LoadDataset reads a dataset of game titles from a file. Tabular inputs
// (csv, xlsx, html) keep all original columns; pdf input yields a single
// game_title column, one title per text line.
func LoadDataset(inputType, path string) (internal.Dataset, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Dataset{}, err
	}

	switch inputType {
	case "csv":
		return parseCSV(blob)
	case "xlsx":
		return parseXLSX(blob)
	case "html":
		return parseHTMLTable(string(blob))
	case "pdf":
		return parsePDF(blob)
	default:
		return internal.Dataset{}, fmt.Errorf("unsupported input type: %s", inputType)
	}
}

func parseCSV(blob []byte) (internal.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(blob))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return internal.Dataset{}, err
	}
	if len(records) == 0 {
		return internal.Dataset{}, errors.New("empty csv input")
	}

	header := normalizeCells(records[0])
	titleIdx := findTitleIndex(header)
	if titleIdx < 0 {
		return internal.Dataset{}, fmt.Errorf("no game title column in header: %v", header)
	}

	ds := internal.Dataset{Source: internal.SourceCSV, Columns: header}
	for i, record := range records[1:] {
		cells := padCells(normalizeCells(record), len(header))
		ds.Rows = append(ds.Rows, internal.Row{
			Index:  i,
			Title:  cells[titleIdx],
			Values: cells,
		})
	}
	return ds, nil
}

func parseXLSX(blob []byte) (internal.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return internal.Dataset{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return internal.Dataset{}, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return internal.Dataset{}, err
	}
	if len(rows) == 0 {
		return internal.Dataset{}, errors.New("empty xlsx sheet")
	}

	header := normalizeCells(rows[0])
	titleIdx := findTitleIndex(header)
	if titleIdx < 0 {
		return internal.Dataset{}, fmt.Errorf("no game title column in header: %v", header)
	}

	ds := internal.Dataset{Source: internal.SourceXLSX, Columns: header}
	for i, row := range rows[1:] {
		cells := padCells(normalizeCells(row), len(header))
		ds.Rows = append(ds.Rows, internal.Row{
			Index:  i,
			Title:  cells[titleIdx],
			Values: cells,
		})
	}
	return ds, nil
}

func parseHTMLTable(html string) (internal.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return internal.Dataset{}, err
	}

	var ds internal.Dataset
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 1 {
			return true
		}

		header := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			header = append(header, strings.TrimSpace(cell.Text()))
		})
		titleIdx := findTitleIndex(header)
		if titleIdx < 0 {
			return true
		}

		ds = internal.Dataset{Source: internal.SourceHTML, Columns: header}
		idx := 0
		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			cells = padCells(cells, len(header))
			ds.Rows = append(ds.Rows, internal.Row{
				Index:  idx,
				Title:  cells[titleIdx],
				Values: cells,
			})
			idx++
		})
		found = true
		return false
	})

	if !found {
		return internal.Dataset{}, errors.New("no table with a game title column")
	}
	return ds, nil
}

func parsePDF(blob []byte) (internal.Dataset, error) {
	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return internal.Dataset{}, err
	}

	ds := internal.Dataset{Source: internal.SourcePDF, Columns: []string{"game_title"}}
	idx := 0
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			ds.Rows = append(ds.Rows, internal.Row{
				Index:  idx,
				Title:  line,
				Values: []string{line},
			})
			idx++
		}
	}
	return ds, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func findTitleIndex(header []string) int {
	for _, probe := range titleProbes {
		for i, h := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), probe) {
				return i
			}
		}
	}
	return -1
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, strings.TrimSpace(c))
	}
	return out
}

func padCells(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}
