package workshop

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/middleware"
	workshopservice "github.com/edgecraft/backend/internal/service/workshop"
	"github.com/edgecraft/backend/pkg/utils"
)

// Handler serves the differentiation workshop flow.
type Handler struct {
	workshop *workshopservice.Service
	log      *zap.Logger
}

// New creates the workshop handler.
func New(workshop *workshopservice.Service, logger *zap.Logger) *Handler {
	return &Handler{workshop: workshop, log: logger}
}

// RegisterRoutes registers workshop routes; all require a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/workshop/categories", h.handleCategories)
	r.Get("/workshop/draft", h.handleDraft)
	r.Post("/workshop/draft", h.handleUpdateDraft)
	r.Post("/workshop/experiences", h.handleAddExperience)
	r.Delete("/workshop/experiences", h.handleRemoveExperience)
	r.Post("/workshop/generate", h.handleGenerate)
	r.Post("/workshop/save", h.handleSave)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, workshopservice.ExperienceCategories())
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.workshop.Draft(ownerID))
}

func (h *Handler) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	var payload struct {
		Title string `json:"title"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.workshop.UpdateDraft(ownerID, payload.Title, payload.Notes))
}

type experiencePayload struct {
	Experience string `json:"experience"`
}

func (h *Handler) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	var payload experiencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.workshop.AddExperience(ownerID, payload.Experience))
}

func (h *Handler) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	var payload experiencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.workshop.RemoveExperience(ownerID, payload.Experience))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	draft, err := h.workshop.Generate(r.Context(), ownerID)
	if err != nil {
		h.log.Warn("generation failed", zap.String("owner", ownerID), zap.Error(err))
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	record, err := h.workshop.Save(r.Context(), ownerID)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, record)
}
