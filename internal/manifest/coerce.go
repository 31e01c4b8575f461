package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

// minFields is the row index column plus the nine record fields.
const minFields = 10

// Stats summarizes what a parse saw.
type Stats struct {
	Tables    int // non-empty tables found
	Rows      int // records emitted
	Skipped   int // rows dropped for having fewer than minFields columns
	Defaulted int // numeric fields that fell back to their zero value
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Tables += o.Tables
	s.Rows += o.Rows
	s.Skipped += o.Skipped
	s.Defaulted += o.Defaulted
}

// Coercer turns an extracted CSV block into records.
type Coercer struct {
	// LazyQuotes relaxes the tokenizer so stray quotes inside fields are kept
	// instead of failing the document.
	LazyQuotes bool
}

// Coerce tokenizes block, drops its header row, and maps every row with at
// least minFields columns to a Record. Short rows are skipped. Only a
// tokenizer failure is an error; bad numeric fields take their defaults.
func (c Coercer) Coerce(block string) ([]models.Record, Stats, error) {
	r := csv.NewReader(strings.NewReader(block))
	r.FieldsPerRecord = -1
	r.LazyQuotes = c.LazyQuotes

	stats := Stats{Tables: 1}
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, nil
		}
		return nil, stats, apperr.Wrap(apperr.KindCSV, fmt.Errorf("read table header: %w", err))
	}

	var records []models.Record
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, apperr.Wrap(apperr.KindCSV, fmt.Errorf("read table row: %w", err))
		}
		if len(fields) < minFields {
			stats.Skipped++
			continue
		}

		rec, defaulted := toRecord(fields)
		stats.Defaulted += defaulted
		records = append(records, rec)
	}
	stats.Rows = len(records)

	return records, stats, nil
}

// toRecord maps columns 1..9; column 0 is the row index and is discarded.
func toRecord(fields []string) (models.Record, int) {
	var (
		rec       models.Record
		defaulted int
		d         bool
	)
	count := func(wasDefaulted bool) {
		if wasDefaulted {
			defaulted++
		}
	}

	rec.Description = at(fields, 1)
	rec.ItemNumber = at(fields, 2)
	rec.UPCNumber = at(fields, 3)
	rec.Category, d = ParseCategory(at(fields, 4))
	count(d)
	rec.CategoryDescription = at(fields, 5)
	rec.Quantity, d = ParseQuantity(at(fields, 6))
	count(d)
	rec.RetailPerItem, d = ParseCurrency(at(fields, 7))
	count(d)
	rec.LiquidationRate, d = ParsePercentage(at(fields, 8))
	count(d)
	rec.LiquidationPrice, d = ParseCurrency(at(fields, 9))
	count(d)

	return rec, defaulted
}

func at(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
