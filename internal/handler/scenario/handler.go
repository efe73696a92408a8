package scenario

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgecraft/backend/internal/model/scenario"
	"github.com/edgecraft/backend/pkg/utils"
)

// Handler lists the role-play scenarios.
type Handler struct {
	scenarios scenario.Store
}

// New creates the scenario handler.
func New(scenarios scenario.Store) *Handler {
	return &Handler{scenarios: scenarios}
}

// RegisterRoutes registers scenario routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.scenarios.List())
}
