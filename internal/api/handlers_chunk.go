package api

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/mdchunk/internal/doctree"
	"github.com/dgallion1/mdchunk/internal/pipeline"
	"github.com/dgallion1/mdchunk/internal/source"
)

type chunkRequest struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

// handleChunk chunks one document synchronously and returns its records
// without storing them. The body is either a multipart upload ("file") or
// JSON {"doc_id", "text"} holding markdown.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	var doc doctree.Document
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		var req chunkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.DocID == "" {
			jsonError(w, "doc_id is required", http.StatusBadRequest)
			return
		}
		l := &source.MarkdownLoader{}
		d, err := l.Load(strings.NewReader(req.Text), req.DocID)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		doc = d

	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		_, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		filename, data, err := s.readUpload(header)
		if err != nil {
			jsonError(w, err.Error(), uploadStatus(err))
			return
		}
		l, err := source.ForFile(filename, source.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		d, err := l.Load(bytes.NewReader(data), filename)
		if err != nil {
			jsonError(w, "load: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		doc = d
		if id := r.FormValue("doc_id"); id != "" {
			doc.ID = id
		}

	default:
		jsonError(w, "expected multipart/form-data or application/json", http.StatusUnsupportedMediaType)
		return
	}

	strategy, err := s.strategyOverride(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strategy == nil {
		strategy = s.orchestrator.Strategy()
	}

	start := time.Now()
	records := pipeline.ChunkDocument(doc, strategy)
	s.orchestrator.Stats().Record(time.Since(start), len(records))

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":   doc.ID,
		"title":    doc.Title,
		"strategy": strategy.Name(),
		"count":    len(records),
		"chunks":   records,
	})
}
