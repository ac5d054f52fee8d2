package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a user and returns the public profile with a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in validation.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid request body", nil, nil)
		return
	}

	res, err := s.users.Register(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusCreated, true, "User registered successfully!",
		map[string]any{"user": res.User, "token": res.Token}, nil)
}

// handleLogin verifies credentials and returns a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid request body", nil, nil)
		return
	}

	if in.Email == "" || in.Password == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "Email and password are required", nil, nil)
		return
	}

	res, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid email or password", nil, nil)
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, true, "Login successful!",
		map[string]any{"user": res.User, "token": res.Token}, nil)
}

// handleMe returns the caller's profile plus their record count.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrTokenRequired)
		return
	}

	user, count, err := s.users.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeEnvelope(w, http.StatusNotFound, false, "User not found", nil, nil)
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, true, "User retrieved successfully",
		map[string]any{"user": user, "penguinCount": count}, nil)
}

// handleLogout confirms logout; tokens are discarded client-side, nothing is
// invalidated server-side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, true, "Logout successful", nil, nil)
}

// handleVerify confirms the presented token; reaching the handler means the
// auth middleware already accepted it.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrTokenRequired)
		return
	}

	writeEnvelope(w, http.StatusOK, true, "Token is valid", map[string]any{
		"user": map[string]string{
			"userId":   claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		},
	}, nil)
}
