// Package manifest recovers typed inventory records from manifest reports:
// plain-text documents that embed CSV-like tables between free-form text.
package manifest

import (
	"strconv"
	"strings"
)

// CanonicalHeader is written at the top of every extracted block. The
// document's own header row is discarded in favour of this one.
const CanonicalHeader = "row,Description,ItemNumber,UPC Number,Category,Category description,Qty,Retail per item (USD$),Liquidation rate %,Liquidation price (USD$)"

// Markers are the literals that delimit a table inside a report.
type Markers struct {
	Start  string `yaml:"start"`  // line containing it opens a table
	Header string `yaml:"header"` // first non-blank line after Start containing it is skipped
	End    string `yaml:"end"`    // trimmed line starting with it closes the table
	Rule   string `yaml:"rule"`   // trimmed lines starting with it are ignored
}

// DefaultMarkers returns the markers used by the manifest reports.
func DefaultMarkers() Markers {
	return Markers{
		Start:  "Item list",
		Header: "Description",
		End:    "Total",
		Rule:   "-",
	}
}

// WithDefaults fills every empty marker from DefaultMarkers. An empty marker
// would match every line.
func (m Markers) WithDefaults() Markers {
	d := DefaultMarkers()
	if m.Start == "" {
		m.Start = d.Start
	}
	if m.Header == "" {
		m.Header = d.Header
	}
	if m.End == "" {
		m.End = d.End
	}
	if m.Rule == "" {
		m.Rule = d.Rule
	}
	return m
}

// Extractor locates the tables embedded in a document and rebuilds each one
// as a CSV block headed by CanonicalHeader.
type Extractor struct {
	Markers Markers
}

// NewExtractor returns an Extractor for m, defaults applied.
func NewExtractor(m Markers) *Extractor {
	return &Extractor{Markers: m.WithDefaults()}
}

// Extract returns one CSV block per non-empty table, in document order.
// A table left open at the end of the text is closed implicitly.
func (e *Extractor) Extract(text string) []string {
	s := &scan{markers: e.Markers.WithDefaults()}
	for _, line := range splitLines(text) {
		s.step(line)
	}
	s.close()
	return s.blocks
}

type scanState int

const (
	stateScanning scanState = iota
	// stateAwaitHeader is only held between the start marker and the first
	// non-blank line, which is dropped if it is the document's header row.
	stateAwaitHeader
	stateInTable
)

type scan struct {
	markers Markers
	state   scanState
	block   strings.Builder
	rows    int
	blocks  []string
	// numbered is set when the document header has no leading index column,
	// so one is written in front of every data row.
	numbered bool
}

func (s *scan) step(raw string) {
	line := strings.TrimSpace(raw)

	switch s.state {
	case stateScanning:
		if strings.Contains(line, s.markers.Start) {
			s.state = stateAwaitHeader
		}
	case stateAwaitHeader:
		if line == "" {
			return
		}
		s.state = stateInTable
		if strings.Contains(raw, s.markers.Header) {
			s.numbered = firstColumn(line) == s.markers.Header
			return
		}
		s.row(line)
	case stateInTable:
		s.row(line)
	}
}

// row handles a trimmed line inside a table. Nested start markers are not
// detected here; they are ordinary content.
func (s *scan) row(line string) {
	switch {
	case strings.HasPrefix(line, s.markers.End):
		s.close()
	case line == "", strings.HasPrefix(line, s.markers.Rule):
	default:
		if s.rows == 0 {
			s.block.WriteString(CanonicalHeader)
			s.block.WriteByte('\n')
		}
		if s.numbered {
			s.block.WriteString(strconv.Itoa(s.rows + 1))
			s.block.WriteByte(',')
		}
		s.block.WriteString(CleanLine(line))
		s.block.WriteByte('\n')
		s.rows++
	}
}

func (s *scan) close() {
	if s.rows > 0 {
		s.blocks = append(s.blocks, s.block.String())
	}
	s.block.Reset()
	s.rows = 0
	s.numbered = false
	s.state = stateScanning
}

// CleanLine normalizes one raw table line before it is tokenized: the
// spreadsheet-export quoting (="value", "=""value""") is reduced to plain CSV
// quotes. It must see the whole line because the artifacts straddle field
// boundaries. Order matters.
func CleanLine(line string) string {
	line = strings.ReplaceAll(line, `=""`, `"`)
	line = strings.ReplaceAll(line, `="`, `"`)
	line = strings.ReplaceAll(line, `"""`, `"`)
	return strings.ReplaceAll(line, `""`, `"`)
}

func firstColumn(line string) string {
	first, _, _ := strings.Cut(CleanLine(line), ",")
	return strings.Trim(first, `" `)
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
