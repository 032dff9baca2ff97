package fires

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
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
}

type fireResponse struct {
	Fire *Fire `json:"fire"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpapi.Error(w, h.Logger, apperror.Unauthenticated("missing bearer token"))
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.Logger, apperror.InvalidInput("invalid request body"))
		return
	}
	f, err := h.Service.Create(r.Context(), user.ID, req.Latitude, req.Longitude, req.Description)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	h.Metrics.RecordFireReported()
	httpapi.JSON(w, http.StatusCreated, fireResponse{Fire: f})
}

type listResponse struct {
	Fires []Fire `json:"fires"`
	Total int    `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flt := ListFilter{Status: Status(q.Get("status"))}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			flt.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			flt.Offset = n
		}
	}
	list, total, err := h.Service.List(r.Context(), flt)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, listResponse{Fires: list, Total: total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := fireID(r)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	f, err := h.Service.Get(r.Context(), id)
	if err != nil {
		httpapi.Error(w, h.Logger, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, fireResponse{Fire: f})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		httpapi.Error(w, h.Logger, apperror.InvalidInput("invalid request body"))
		return
	}
	f, err := h.Service.UpdateStatus(r.Context(), id, req.Status, user)
	if err != nil {
		h.Metrics.RecordTransition(string(req.Status), "rejected")
		httpapi.Error(w, h.Logger, err)
		return
	}
	h.Metrics.RecordTransition(string(f.Status), "applied")
	httpapi.JSON(w, http.StatusOK, fireResponse{Fire: f})
}
