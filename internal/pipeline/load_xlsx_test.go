package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"game_title", "release_year"},
		{"Stardew Valley", 2016},
		{"Factorio", 2020},
	})
	ds, err := parseXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("rows=%d", len(ds.Rows))
	}
	if ds.Rows[0].Title != "Stardew Valley" {
		t.Fatalf("title=%q", ds.Rows[0].Title)
	}
	if len(ds.Columns) != 2 {
		t.Fatalf("columns=%v", ds.Columns)
	}
}

func TestParseXLSXMissingTitleColumn(t *testing.T) {
	blob := mkXLSX([][]any{
		{"publisher", "release_year"},
		{"Valve", 2011},
	})
	if _, err := parseXLSX(blob); err == nil {
		t.Fatal("expected error for missing title column")
	}
}
