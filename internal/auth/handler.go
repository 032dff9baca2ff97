package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"firewatch/internal/apperror"
	"firewatch/internal/httpapi"
)

type Handler struct {
	Service *Service
	Logger  *slog.Logger
}

type loginRequest struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.Logger, apperror.InvalidInput("invalid request body"))
		return
	}
	user, token, err := h.Service.Login(r.Context(), req.Name, req.Role)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type meResponse struct {
	User *User `json:"user"`
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httpapi.Error(w, h.Logger, apperror.Unauthenticated("missing bearer token"))
		return
	}
	httpapi.JSON(w, http.StatusOK, meResponse{User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), TokenFromRequest(r)); err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
