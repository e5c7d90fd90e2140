package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meutreino/skill/internal/coach"
	"github.com/meutreino/skill/internal/plan"
)

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	op := coach.Operation(chi.URLParam(r, "operation"))

	var req coach.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	prompt, err := s.turns.Dispatch(r.Context(), op, req)
	if errors.Is(err, coach.ErrUnknownOperation) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("turn error", "op", op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, prompt)
}

// sessionView is the JSON shape of an in-memory session slot.
type sessionView struct {
	Status     string         `json:"status"`
	WorkoutID  string         `json:"workout_id,omitempty"`
	Position   *plan.Position `json:"position,omitempty"`
	Held       *plan.Position `json:"held,omitempty"`
	ReminderID string         `json:"reminder_id,omitempty"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session inspection disabled"})
		return
	}
	slot := s.sessions.Snapshot(chi.URLParam(r, "userID"))

	view := sessionView{Status: slot.Status().String(), ReminderID: slot.ReminderID}
	if slot.Active != nil {
		view.WorkoutID = slot.Active.WorkoutID
		pos := slot.Active.Position
		view.Position = &pos
	}
	if slot.Held != nil {
		if view.WorkoutID == "" {
			view.WorkoutID = slot.Held.WorkoutID
		}
		pos := slot.Held.Position
		view.Held = &pos
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
