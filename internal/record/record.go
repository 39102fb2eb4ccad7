package record

import (
	"unicode/utf8"

	"github.com/dgallion1/mdchunk/internal/chunker"
	"github.com/dgallion1/mdchunk/internal/doctree"
)

// Record is a keyed chunk with the metadata needed for indexing, citation
// and display. Offsets refer to the document's source text.
type Record struct {
	DocID         string   `json:"doc_id"`
	Index         int      `json:"index"`
	Key           string   `json:"chunk_key"`
	HeaderPath    []string `json:"header_path"`
	Text          string   `json:"text"`
	CharLen       int      `json:"char_len"`
	CharStart     int      `json:"char_start"`
	CharEnd       int      `json:"char_end"`
	ByteStart     int      `json:"byte_start"`
	ByteEnd       int      `json:"byte_end"`
	TokenEstimate int      `json:"token_estimate"`
	Part          int      `json:"part"`
	Parts         int      `json:"parts"`
	SourcePath    string   `json:"source_path,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Slug          string   `json:"slug,omitempty"`
	Strategy      string   `json:"strategy,omitempty"`
}

// Emit pairs each chunk with its key and document metadata. Chunks must be in
// document order, as every Strategy returns them.
func Emit(doc doctree.Document, strategy string, chunks []doctree.Chunk) []Record {
	keys := NewKeyGen(doc.ID)
	records := make([]Record, 0, len(chunks))

	prevByte, prevChar := 0, 0
	for _, c := range chunks {
		charStart := prevChar + utf8.RuneCountInString(doc.Text[prevByte:c.ByteStart])
		path := doctree.CopyPath(c.HeaderPath)
		if path == nil {
			path = []string{}
		}
		records = append(records, Record{
			DocID:         doc.ID,
			Index:         c.Index,
			Key:           keys.Next(c.HeaderPath),
			HeaderPath:    path,
			Text:          c.Text,
			CharLen:       c.CharLen,
			CharStart:     charStart,
			CharEnd:       charStart + c.CharLen,
			ByteStart:     c.ByteStart,
			ByteEnd:       c.ByteEnd,
			TokenEstimate: chunker.EstimateTokens(c.Text),
			Part:          c.Part,
			Parts:         c.Parts,
			SourcePath:    doc.Path,
			Title:         doc.Title,
			Description:   doc.Description,
			Keywords:      doc.Keywords,
			Slug:          doc.Slug,
			Strategy:      strategy,
		})
		prevByte, prevChar = c.ByteEnd, charStart+c.CharLen
	}
	return records
}
