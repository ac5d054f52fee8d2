package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/validation"
)

// caller resolves the verified identity; the router only reaches these
// handlers through requireAuth, so claims are always present.
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrTokenRequired)
		return "", false
	}
	return claims.UserID, true
}

// handleListPenguins returns the caller's records as a bare array, the shape
// the frontend list view consumes.
func (s *Server) handleListPenguins(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}

	penguins, err := s.penguins.List(r.Context(), callerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, penguins)
}

// handlePenguinStats returns the caller's aggregate stats as a bare object.
func (s *Server) handlePenguinStats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}

	stats, err := s.penguins.Stats(r.Context(), callerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleSearchPenguins matches the q parameter against name and species.
func (s *Server) handleSearchPenguins(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "Search term is required", nil,
			map[string]string{"parameter": "q"})
		return
	}

	penguins, err := s.penguins.Search(r.Context(), callerID, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	message := fmt.Sprintf("Found %d penguins matching %q", len(penguins), q)
	writeEnvelope(w, http.StatusOK, true, message, penguins, nil)
}

func (s *Server) handleGetPenguin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	penguin, err := s.penguins.Get(r.Context(), callerID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeEnvelope(w, http.StatusNotFound, false, "Penguin not found", nil,
				map[string]string{"id": id})
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, true, "Penguin retrieved successfully", penguin, nil)
}

// handleCreatePenguin creates a record owned by the caller. The response
// keeps the original flat shape.
func (s *Server) handleCreatePenguin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}

	var in validation.PenguinInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid request body", nil, nil)
		return
	}

	penguin, err := s.penguins.Create(r.Context(), callerID, &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "penguin added",
		"id", penguin.ID, "name", penguin.Name, "species", penguin.Species)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Penguin added successfully!",
		"id":      penguin.ID,
		"penguin": penguin,
	})
}

func (s *Server) handleUpdatePenguin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var in validation.PenguinInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid request body", nil, nil)
		return
	}

	penguin, changed, err := s.penguins.Update(r.Context(), callerID, id, &in)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeEnvelope(w, http.StatusNotFound, false, "Penguin not found", nil,
				map[string]string{"id": id})
			return
		}
		s.writeError(w, r, err)
		return
	}

	if !changed {
		writeEnvelope(w, http.StatusOK, false, "No changes made to penguin", nil,
			map[string]string{"id": id})
		return
	}

	s.logger.Info(r.Context(), "penguin updated", "id", penguin.ID, "name", penguin.Name)
	writeEnvelope(w, http.StatusOK, true, "Penguin updated successfully", penguin, nil)
}

func (s *Server) handleDeletePenguin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.penguins.Delete(r.Context(), callerID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeEnvelope(w, http.StatusNotFound, false, "Penguin not found", nil,
				map[string]string{"id": id})
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "penguin deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Penguin deleted successfully"})
}
