package comments

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"firewatch/internal/apperror"
	"firewatch/internal/auth"
	"firewatch/internal/httpapi"
	"firewatch/internal/metrics"
)

type Handler struct {
	Service *Service
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

func fireID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.InvalidInput("invalid fire id")
	}
	return id, nil
}

type createRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	Comment *Comment `json:"comment"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.Error(w, h.Logger, apperror.Unauthenticated("missing bearer token"))
		return
	}
	id, err := fireID(r)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.Logger, apperror.InvalidInput("invalid request body"))
		return
	}
	c, err := h.Service.Add(r.Context(), id, user.ID, req.Text)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	h.Metrics.RecordComment()
	httpapi.JSON(w, http.StatusCreated, commentResponse{Comment: c})
}

type listResponse struct {
	Comments []Comment `json:"comments"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, err := fireID(r)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	list, err := h.Service.ListFor(r.Context(), id)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, listResponse{Comments: list})
}
