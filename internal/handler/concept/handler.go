package concept

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/middleware"
	conceptmodel "github.com/edgecraft/backend/internal/model/concept"
	"github.com/edgecraft/backend/internal/store"
	"github.com/edgecraft/backend/pkg/utils"
)

// Handler serves the saved concept library.
type Handler struct {
	store store.Store
	log   *zap.Logger
}

// New creates the concept handler.
func New(st store.Store, logger *zap.Logger) *Handler {
	return &Handler{store: st, log: logger}
}

// RegisterRoutes registers concept routes; all require a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/concepts", h.handleList)
	r.Delete("/concepts/{conceptID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	concepts, err := h.store.ListConceptsByOwner(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			h.log.Warn("concept store unavailable, degrading to empty library", zap.Error(err))
			utils.RespondJSON(w, http.StatusOK, []conceptmodel.Concept{})
			return
		}
		utils.RespondError(w, http.StatusServiceUnavailable, "failed to load concepts")
		return
	}

	if term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search"))); term != "" {
		filtered := make([]conceptmodel.Concept, 0, len(concepts))
		for _, c := range concepts {
			if c.MatchesSearch(term) {
				filtered = append(filtered, c)
			}
		}
		concepts = filtered
	}

	utils.RespondJSON(w, http.StatusOK, concepts)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	conceptID := chi.URLParam(r, "conceptID")

	if err := h.store.DeleteConcept(r.Context(), ownerID, conceptID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "concept not found")
			return
		}
		utils.RespondError(w, http.StatusServiceUnavailable, "failed to delete concept")
		return
	}

	h.log.Info("concept deleted", zap.String("owner", ownerID), zap.String("concept", conceptID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
