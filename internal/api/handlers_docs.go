package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dgallion1/mdchunk/internal/store"
	"github.com/go-chi/chi/v5"
)

// docIDParam returns the unescaped {docID}; ids are relative paths, so
// clients send "/" as %2F.
func docIDParam(r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "docID"))
	return id, err == nil && id != ""
}

// handleListDocuments lists all stored documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	st, err := s.orchestrator.Store().Get()
	if err != nil {
		jsonError(w, "store unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	docs, err := st.Documents(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDocumentChunks returns the stored records of one document.
func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	docID, ok := docIDParam(r)
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}
	st, err := s.orchestrator.Store().Get()
	if err != nil {
		jsonError(w, "store unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	records, err := st.Chunks(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to read chunks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id": docID,
		"count":  len(records),
		"chunks": records,
	})
}

// handleDeleteDocument deletes a document and all its stored chunks.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := docIDParam(r)
	if !ok {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}
	st, err := s.orchestrator.Store().Get()
	if err != nil {
		jsonError(w, "store unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	err = st.DeleteDocument(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("document deleted", "doc_id", docID)
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
