package api

import "net/http"

func (s *Server) handleChunkStats(w http.ResponseWriter, r *http.Request) {
	strategy := s.orchestrator.Strategy()
	writeJSON(w, http.StatusOK, map[string]any{
		"strategy":    strategy.Name(),
		"config":      strategy.Config(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}
