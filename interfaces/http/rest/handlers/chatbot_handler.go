package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"edutube/application/services"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
)

// ChatbotHandler proxies learner questions to the chat model
type ChatbotHandler struct {
	chatbot *services.ChatbotService
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbot *services.ChatbotService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot, errors: errs, logger: logger}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// ChatResponse is the model's answer
type ChatResponse struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Fallback bool   `json:"fallback"`
}

// Chat handles POST /chatbot/chat
func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	answer, err := h.chatbot.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, ChatResponse{Response: answer, Success: true})
}

// Health handles GET /chatbot/health
func (h *ChatbotHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.chatbot.Health())
}
