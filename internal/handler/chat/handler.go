package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/middleware"
	"github.com/edgecraft/backend/internal/model/chat"
	"github.com/edgecraft/backend/internal/model/scenario"
	chatservice "github.com/edgecraft/backend/internal/service/chat"
	"github.com/edgecraft/backend/pkg/utils"
)

// Conversationalist produces role-play turns. The chat handler only needs
// the conversation surface of the AI service.
type Conversationalist interface {
	StreamingEnabled() bool
	StreamConversation(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (*schema.StreamReader[*schema.Message], error)
	GenerateConversation(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (*schema.Message, error)
}

// Handler manages chat sessions and streams assistant replies over SSE
// and WebSocket.
type Handler struct {
	chatSvc  *chatservice.Service
	ai       Conversationalist
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates the chat handler. ai may be nil when no model is configured;
// streaming endpoints then report the capability as unavailable.
func New(chatSvc *chatservice.Service, ai Conversationalist, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		ai:      ai,
		log:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/session", h.handleCreateSession)
	r.Get("/chat/session/{sessionID}/messages", h.handleTranscript)
	r.Delete("/chat/session/{sessionID}", h.handleClearSession)
	r.Get("/chat/stream/{sessionID}", h.handleStream)
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

// StreamResponse is one streamed event frame, shared by both transports.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		ScenarioID string `json:"scenarioId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ScenarioID == "" {
		utils.RespondError(w, http.StatusBadRequest, "scenarioId is required")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), ownerID, payload.ScenarioID)
	if err != nil {
		if errors.Is(err, chatservice.ErrScenarioNotFound) {
			utils.RespondError(w, http.StatusBadRequest, "scenario not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	messages, err := h.chatSvc.Transcript(r.Context(), ownerID, session.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  session,
		"messages": messages,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.chatSvc.Transcript(r.Context(), ownerID, sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatSvc.ClearSession(r.Context(), ownerID, sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if h.ai == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	ctx := r.Context()
	sc, err := h.chatSvc.Scenario(ctx, ownerID, sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	if _, err := h.chatSvc.AppendUserMessage(ctx, ownerID, sessionID, userMessage); err != nil {
		switch {
		case errors.Is(err, chatservice.ErrStreamInFlight):
			utils.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, chatservice.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusNotFound, "session not found")
		}
		return
	}

	utils.SetupSSEHeaders(w)

	emit := func(frame StreamResponse) {
		utils.SendSSEChunk(w, flusher, frame)
	}
	if err := h.runTurn(ctx, ownerID, sessionID, sc.SystemPrompt, userMessage, emit); err != nil {
		h.log.Warn("chat turn failed",
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
	}
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	sc, err := h.chatSvc.Scenario(r.Context(), ownerID, sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.log.Info("websocket connected", zap.String("sessionID", sessionID))

	for {
		var inbound struct {
			Message string `json:"message"`
		}
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		emit := func(frame StreamResponse) {
			if err := conn.WriteJSON(frame); err != nil {
				h.log.Warn("websocket write failed", zap.Error(err))
			}
		}

		if h.ai == nil {
			emit(StreamResponse{Event: "error", SessionID: sessionID, Error: "ai streaming unavailable"})
			continue
		}

		if _, err := h.chatSvc.AppendUserMessage(r.Context(), ownerID, sessionID, inbound.Message); err != nil {
			emit(StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
			continue
		}

		if err := h.runTurn(r.Context(), ownerID, sessionID, sc.SystemPrompt, inbound.Message, emit); err != nil {
			h.log.Warn("chat turn failed",
				zap.String("sessionID", sessionID),
				zap.Error(err),
			)
		}
	}
}

// runTurn drives one assistant reply after the user message has been
// appended, forwarding fragments to emit as they arrive. The pending
// assistant message is finalized on every path, so a failed stream keeps
// whatever content already arrived.
func (h *Handler) runTurn(ctx context.Context, ownerID, sessionID, systemPrompt, userMessage string, emit func(StreamResponse)) error {
	if systemPrompt == "" {
		systemPrompt = scenario.DefaultSystemPrompt
	}

	history, err := h.chatSvc.Transcript(ctx, ownerID, sessionID)
	if err != nil {
		emit(StreamResponse{Event: "error", SessionID: sessionID, Error: "session not found"})
		return err
	}
	// The chain carries the user message as the query; drop the copy just
	// appended to the transcript.
	if n := len(history); n > 0 && history[n-1].Role == chat.RoleUser {
		history = history[:n-1]
	}

	if err := h.chatSvc.BeginStream(ctx, ownerID, sessionID); err != nil {
		emit(StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return err
	}

	emit(StreamResponse{Event: "start", SessionID: sessionID})

	turnErr := h.dispatchReply(ctx, sessionID, systemPrompt, history, userMessage, emit)

	final, finErr := h.chatSvc.FinalizeStream(ctx, sessionID)
	if finErr != nil {
		emit(StreamResponse{Event: "error", SessionID: sessionID, Error: finErr.Error()})
		return finErr
	}

	if turnErr != nil {
		emit(StreamResponse{Event: "error", SessionID: sessionID, Error: fmt.Sprintf("AI generation failed: %v", turnErr)})
	}
	if final.ID != "" {
		emit(StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			MessageID: final.ID,
			Content:   final.Content,
		})
	}
	emit(StreamResponse{Event: "end", SessionID: sessionID, Finished: true})

	return turnErr
}

func (h *Handler) dispatchReply(ctx context.Context, sessionID, systemPrompt string, history []chat.Message, userMessage string, emit func(StreamResponse)) error {
	if !h.ai.StreamingEnabled() {
		response, err := h.ai.GenerateConversation(ctx, systemPrompt, history, userMessage)
		if err != nil {
			return err
		}
		return h.chatSvc.AppendFragment(ctx, sessionID, response.Content)
	}

	stream, err := h.ai.StreamConversation(ctx, systemPrompt, history, userMessage)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			return nil
		}
		if recvErr != nil {
			return recvErr
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		if err := h.chatSvc.AppendFragment(ctx, sessionID, chunk.Content); err != nil {
			return err
		}
		emit(StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   chunk.Content,
		})
	}
}
