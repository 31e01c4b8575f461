package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

// columns defines the header row, in Record field order.
var columns = []string{
	"description",
	"item_number",
	"upc_number",
	"category",
	"category_description",
	"quantity",
	"retail_per_item",
	"liquidation_rate",
	"liquidation_price",
}

// RecordWriter receives records for one export file.
type RecordWriter interface {
	WriteHeader() error
	WriteRecord(rec models.Record) error
	// Close flushes buffered output and releases the file.
	Close() error
}

// Create opens path for writing and picks the format from its extension:
// ".xlsx" gives a workbook, anything else CSV.
func Create(path string) (RecordWriter, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXWriter(path), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &csvFile{CSVWriter: NewCSVWriter(f), file: f}, nil
}

// CSVWriter wraps csv.Writer for exporting records as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 9-column header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one record as a row.
func (w *CSVWriter) WriteRecord(rec models.Record) error {
	return w.csv.Write(recordToRow(rec))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

type csvFile struct {
	*CSVWriter
	file *os.File
}

func (c *csvFile) Close() error {
	c.Flush()
	flushErr := c.Error()
	closeErr := c.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", c.file.Name(), flushErr)
	}
	return closeErr
}

func recordToRow(rec models.Record) []string {
	return []string{
		rec.Description,
		rec.ItemNumber,
		rec.UPCNumber,
		strconv.FormatUint(uint64(rec.Category), 10),
		rec.CategoryDescription,
		formatNumber(rec.Quantity),
		formatNumber(rec.RetailPerItem),
		formatNumber(rec.LiquidationRate),
		formatNumber(rec.LiquidationPrice),
	}
}

// formatNumber renders the shortest plain decimal: no symbol, no exponent,
// no thousands separator.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
