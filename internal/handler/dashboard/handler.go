package dashboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/middleware"
	reflectionservice "github.com/edgecraft/backend/internal/service/reflection"
	"github.com/edgecraft/backend/internal/store"
	"github.com/edgecraft/backend/pkg/utils"
)

// streakWindow bounds how many reflections the streak scan loads. The
// streak itself caps at 30 days, so anything older cannot matter.
const streakWindow = 60

// Handler serves the dashboard stats summary.
type Handler struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// New creates the dashboard handler.
func New(st store.Store, logger *zap.Logger) *Handler {
	return &Handler{
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.handleStats)
}

type statsResponse struct {
	ConceptsCreated      int `json:"conceptsCreated"`
	ReflectionsCompleted int `json:"reflectionsCompleted"`
	StreakDays           int `json:"streakDays"`
}

// When the store is unreachable, the dashboard degrades to zeroes rather
// than failing the page.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var stats statsResponse

	concepts, err := h.store.ListConceptsByOwner(r.Context(), ownerID)
	switch {
	case errors.Is(err, store.ErrUnavailable):
		h.log.Warn("stats degraded: concepts unavailable", zap.Error(err))
	case err != nil:
		utils.RespondError(w, http.StatusServiceUnavailable, "failed to load stats")
		return
	default:
		stats.ConceptsCreated = len(concepts)
	}

	reflections, err := h.store.ListReflectionsByOwner(r.Context(), ownerID, streakWindow)
	switch {
	case errors.Is(err, store.ErrUnavailable):
		h.log.Warn("stats degraded: reflections unavailable", zap.Error(err))
	case err != nil:
		utils.RespondError(w, http.StatusServiceUnavailable, "failed to load stats")
		return
	default:
		stats.ReflectionsCompleted = len(reflections)
		stats.StreakDays = reflectionservice.ComputeStreak(h.now().UTC(), reflections)
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}
