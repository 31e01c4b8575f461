package manifest

import (
	"os"
	"unicode/utf8"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

// Parser runs extraction and coercion over whole documents.
type Parser struct {
	Extractor *Extractor
	Coercer   Coercer
}

// NewParser builds a Parser for the given markers.
func NewParser(m Markers, lazyQuotes bool) *Parser {
	return &Parser{
		Extractor: NewExtractor(m),
		Coercer:   Coercer{LazyQuotes: lazyQuotes},
	}
}

// ParseText extracts every table in text and returns their records in
// document order. The first tokenizer error aborts the document.
func (p *Parser) ParseText(text string) ([]models.Record, Stats, error) {
	var (
		all   []models.Record
		total Stats
	)
	for _, block := range p.Extractor.Extract(text) {
		records, stats, err := p.Coercer.Coerce(block)
		total.Add(stats)
		if err != nil {
			return nil, total, err
		}
		all = append(all, records...)
	}
	return all, total, nil
}

// ParseFile reads the document at path fully and parses it. Errors carry the
// path.
func (p *Parser) ParseFile(path string) ([]models.Record, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, apperr.WithPath(path, apperr.Wrap(apperr.KindIO, err))
	}
	if !utf8.Valid(data) {
		return nil, Stats{}, apperr.WithPath(path, apperr.New(apperr.KindUTF8, "failed to parse as string: invalid utf-8"))
	}

	records, stats, err := p.ParseText(string(data))
	if err != nil {
		return nil, stats, apperr.WithPath(path, err)
	}
	return records, stats, nil
}
