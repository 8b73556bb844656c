package http

import (
	"net/http"

	"github.com/examportal/examportal/internal/auth"
	"github.com/examportal/examportal/internal/user"
)

// POST /auth/signup  {name, email, password, role}
func SignupHandler(users user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
			writeError(w, http.StatusBadRequest, "all fields are required")
			return
		}
		if !user.ValidRole(req.Role) {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		u, err := users.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"user":    u,
		})
	}
}

// POST /auth/login  {email, password, role}
func LoginHandler(users user.Store, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Email == "" || req.Password == "" || req.Role == "" {
			writeError(w, http.StatusBadRequest, "all fields are required")
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password, req.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		tok, err := authSvc.IssueToken(u.ID, u.Role)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      "Login successful",
			"user":         u,
			"access_token": tok,
		})
	}
}
