package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gamedex/internal"
)

// ExportCSV writes the enriched dataset with the three derived columns
// appended after the original ones.
func ExportCSV(ds internal.EnrichedDataset, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns); err != nil {
		_ = f.Close()
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(exportRecord(row)); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ExportXLSX(ds internal.EnrichedDataset, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range ds.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range ds.Rows {
		r := i + 2
		for col, value := range exportRecord(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func exportRecord(row internal.EnrichedRow) []string {
	record := append([]string{}, row.Values...)
	for _, kind := range internal.Kinds() {
		record = append(record, row.Get(kind))
	}
	return record
}
