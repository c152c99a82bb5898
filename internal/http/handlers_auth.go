package http

import (
	"log/slog"
	"net/http"

	"github.com/monukmodi/smart-expense-tracker-client/internal/notify"
)

type authRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "error", err, "email", req.Email)
		s.pushToast(r.Context(), notify.KindError, "Login failed")
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}

	s.pushToast(r.Context(), notify.KindSuccess, "Welcome back, "+user.Name)
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = sanitizeInput(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		slog.WarnContext(r.Context(), "Registration failed", "error", err, "email", req.Email)
		s.pushToast(r.Context(), notify.KindError, "Registration failed")
		writeError(w, upstreamStatus(err), errorMessage(err))
		return
	}

	s.pushToast(r.Context(), notify.KindSuccess, "Account created")
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.auth.Logout()
	s.dashCache.Purge()
	s.pushToast(r.Context(), notify.KindInfo, "Signed out")
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
