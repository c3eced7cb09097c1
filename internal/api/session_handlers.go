package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lexiflash/internal/services"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Sessions.Start(r.Context(), services.StartSessionInput{
		Kind:       req.Kind,
		ID:         req.ID,
		NumOfWords: req.NumOfWords,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+view.ID)
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleAnswerCard(w http.ResponseWriter, r *http.Request) {
	var req cardAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Sessions.AnswerCard(r.Context(), chi.URLParam(r, "id"), *req.Known, req.AlreadyKnow)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Exercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleAnswerExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Sessions.AnswerExercise(r.Context(), chi.URLParam(r, "id"), req.answer())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleEndSession tears the session down; it returns once pending answers
// have been submitted or parked.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.End(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}
