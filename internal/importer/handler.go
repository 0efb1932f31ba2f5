package importer

import (
	"net/http"

	"github.com/autotracker/tracker-admin/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(base *transport.BaseHandler, service *Service) *Handler {
	return &Handler{BaseHandler: base, Service: service}
}

// ImportResponse preserves the legacy import endpoint's success shape;
// scrapeFailures is additive.
type ImportResponse struct {
	Success        bool  `json:"success"`
	Users          int64 `json:"users"`
	Objects        int64 `json:"objects"`
	ScrapeFailures int64 `json:"scrapeFailures"`
}

// RunImport handles POST /api/users/import. The run is synchronous: the
// response is only written once every source row has been processed, and a
// partial failure surfaces as an error even though prior upserts remain
// committed.
func (h *Handler) RunImport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Run(r.Context())
	if err != nil {
		h.Logger.Error("RunImport: import failed", "error", err,
			"users_committed", summary.Users,
			"objects_committed", summary.Objects)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RunImport: import completed",
		"users", summary.Users,
		"objects", summary.Objects,
		"scrape_failures", summary.ScrapeFailures)

	h.WriteJSON(w, http.StatusOK, ImportResponse{
		Success:        true,
		Users:          summary.Users,
		Objects:        summary.Objects,
		ScrapeFailures: summary.ScrapeFailures,
	})
}
