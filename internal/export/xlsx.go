package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

const sheetName = "Manifest"

// XLSXWriter builds a workbook in memory and saves it to path on Close.
type XLSXWriter struct {
	path string
	file *excelize.File
	row  int
}

// NewXLSXWriter starts a workbook with a single "Manifest" sheet.
func NewXLSXWriter(path string) *XLSXWriter {
	f := excelize.NewFile()
	_ = f.SetSheetName(f.GetSheetName(0), sheetName)
	return &XLSXWriter{path: path, file: f, row: 1}
}

// WriteHeader writes the header row.
func (w *XLSXWriter) WriteHeader() error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	return w.writeRow(header)
}

// WriteRecord writes one record; numeric fields become numeric cells.
func (w *XLSXWriter) WriteRecord(rec models.Record) error {
	return w.writeRow([]any{
		rec.Description,
		rec.ItemNumber,
		rec.UPCNumber,
		int(rec.Category),
		rec.CategoryDescription,
		rec.Quantity,
		rec.RetailPerItem,
		rec.LiquidationRate,
		rec.LiquidationPrice,
	})
}

func (w *XLSXWriter) writeRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

// Close saves the workbook.
func (w *XLSXWriter) Close() error {
	defer w.file.Close()

	// Widen a few columns
	_ = w.file.SetColWidth(sheetName, "A", "A", 40) // description
	_ = w.file.SetColWidth(sheetName, "B", "C", 16) // item / upc
	_ = w.file.SetColWidth(sheetName, "E", "E", 24) // category description
	_ = w.file.SetColWidth(sheetName, "F", "I", 14) // numbers

	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
