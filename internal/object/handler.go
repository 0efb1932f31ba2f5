package object

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autotracker/tracker-admin/internal/listquery"
	"github.com/autotracker/tracker-admin/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(base *transport.BaseHandler, service *Service) *Handler {
	return &Handler{BaseHandler: base, Service: service}
}

// ListObjects handles GET /api/objects
func (h *Handler) ListObjects(w http.ResponseWriter, r *http.Request) {
	spec := listquery.FromQuery(r.URL.Query(), ListDefaults)

	page, err := h.Service.List(r.Context(), spec)
	if err != nil {
		h.Logger.Error("ListObjects: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

// ListByUser handles GET /api/objects/byUserId/{userId} and the legacy alias
// GET /api/objects/{userId}.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	spec := listquery.FromQuery(r.URL.Query(), ListDefaults)

	page, err := h.Service.ListByUser(r.Context(), userID, spec)
	if err != nil {
		h.Logger.Error("ListByUser: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

// CreateObject handles POST /api/objects
func (h *Handler) CreateObject(w http.ResponseWriter, r *http.Request) {
	var dto CreateObjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateObject: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.Logger.Error("CreateObject: validation error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	obj, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrObjectExists) {
			h.WriteError(w, http.StatusConflict, "object already exists")
			return
		}
		h.Logger.Error("CreateObject: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, obj)
}

// UpdateObject handles PUT /api/objects/{imei}
func (h *Handler) UpdateObject(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	var dto UpdateObjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateObject: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	obj, err := h.Service.Update(r.Context(), imei, dto)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			h.WriteError(w, http.StatusNotFound, "object not found")
			return
		}
		h.Logger.Error("UpdateObject: service error", "error", err, "imei", imei)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, obj)
}

// DeleteObject handles DELETE /api/objects/{imei}
func (h *Handler) DeleteObject(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")

	count, err := h.Service.Delete(r.Context(), imei)
	if err != nil {
		h.Logger.Error("DeleteObject: service error", "error", err, "imei", imei)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]int64{"deletedCount": count})
}
