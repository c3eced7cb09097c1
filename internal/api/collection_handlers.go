package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleCollections lists collections; ?refresh=1 bypasses the local cache.
func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	collections, err := s.Collections.List(r.Context(), refresh)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, collections)
}

func (s *Server) handlePinned(w http.ResponseWriter, r *http.Request) {
	items, err := s.Collections.Pinned(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	items, err := s.Collections.Pin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	items, err := s.Collections.Unpin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}
