package reflection

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/middleware"
	reflectionmodel "github.com/edgecraft/backend/internal/model/reflection"
	reflectionservice "github.com/edgecraft/backend/internal/service/reflection"
	"github.com/edgecraft/backend/internal/store"
	"github.com/edgecraft/backend/pkg/utils"
)

const defaultRecentLimit = 7

// Handler serves the daily reflection surface.
type Handler struct {
	scheduler *reflectionservice.Service
	log       *zap.Logger
}

// New creates the reflection handler.
func New(scheduler *reflectionservice.Service, logger *zap.Logger) *Handler {
	return &Handler{scheduler: scheduler, log: logger}
}

// RegisterRoutes registers reflection routes; all require a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reflections/today", h.handleToday)
	r.Post("/reflections", h.handleSubmit)
	r.Get("/reflections/recent", h.handleRecent)
}

type todayResponse struct {
	Date          string   `json:"date"`
	QuestionSet   []string `json:"questionSet"`
	Responses     []string `json:"responses"`
	Completed     bool     `json:"completed"`
	AnsweredCount int      `json:"answeredCount"`
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())
	now := time.Now().UTC()

	view, completed, err := h.scheduler.Today(r.Context(), ownerID, now)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			// The day still renders; only the completion state is lost.
			h.log.Warn("reflection store unavailable, serving fresh question set", zap.Error(err))
			questions, qErr := h.scheduler.SelectDailyQuestions(now)
			if qErr != nil {
				utils.RespondError(w, http.StatusInternalServerError, qErr.Error())
				return
			}
			utils.RespondJSON(w, http.StatusOK, todayResponse{
				Date:        now.Format(reflectionmodel.DateFormat),
				QuestionSet: questions,
				Responses:   make([]string, reflectionmodel.QuestionsPerDay),
			})
			return
		}
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, todayResponse{
		Date:          view.Date,
		QuestionSet:   view.QuestionSet,
		Responses:     view.Responses,
		Completed:     completed,
		AnsweredCount: view.AnsweredCount,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	var payload struct {
		QuestionSet []string `json:"questionSet"`
		Responses   []string `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.scheduler.Submit(r.Context(), ownerID, time.Now().UTC(), payload.QuestionSet, payload.Responses)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserID(r.Context())

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reflections, err := h.scheduler.Recent(r.Context(), ownerID, limit)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			h.log.Warn("reflection store unavailable, degrading to empty history", zap.Error(err))
			utils.RespondJSON(w, http.StatusOK, []reflectionmodel.Reflection{})
			return
		}
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reflections)
}
