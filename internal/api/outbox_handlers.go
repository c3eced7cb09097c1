package api

import "net/http"

func (s *Server) handleOutboxStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Outbox.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// handleFlushOutbox delivers parked batches now instead of waiting for the
// scheduler.
func (s *Server) handleFlushOutbox(w http.ResponseWriter, r *http.Request) {
	res, err := s.Outbox.Flush(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
