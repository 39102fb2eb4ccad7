package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdchunk/internal/doctree"
)

// csvBatch is the number of data rows rendered under one "## Rows" header.
const csvBatch = 20

// CSVLoader renders CSV files as markdown tables, one level-2 section per
// batch of rows.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, path string) (doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return doctree.Document{}, fmt.Errorf("parse csv: %w", err)
	}

	var b strings.Builder
	b.WriteString("# " + stem(path) + "\n")
	if len(rows) == 0 {
		return newDocument(path, b.String()), nil
	}

	headers := rows[0]
	data := rows[1:]
	for i := 0; i < len(data); i += csvBatch {
		end := min(i+csvBatch, len(data))
		// Row numbers are 1-indexed and count the header line.
		fmt.Fprintf(&b, "\n## Rows %d-%d\n\n", i+2, end+1)
		writeTableRow(&b, headers, len(headers))
		b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
		for _, row := range data[i:end] {
			writeTableRow(&b, row, len(headers))
		}
	}
	return newDocument(path, b.String()), nil
}

func writeTableRow(b *strings.Builder, cells []string, width int) {
	b.WriteString("|")
	for j := 0; j < width; j++ {
		cell := ""
		if j < len(cells) {
			cell = strings.ReplaceAll(cells[j], "|", `\|`)
			cell = strings.ReplaceAll(cell, "\n", " ")
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}
