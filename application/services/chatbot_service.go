package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"edutube/application/ports"
	pkgerrors "edutube/pkg/errors"
)

const chatPrompt = `You are a helpful AI assistant for Thrive Learn, a platform for organizing and tracking learning journeys.
Current context: %s
User question: %s
Provide a concise, helpful response. If the question is about "Agent SDK" or technical topics, explain them simply.`

// ChatbotHealth is the chatbot status report.
type ChatbotHealth struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	GeminiConfigured bool   `json:"geminiConfigured"`
}

// ChatbotService forwards learner questions to the chat model.
type ChatbotService struct {
	completer ports.ChatCompleter
	logger    *zap.Logger
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(completer ports.ChatCompleter, logger *zap.Logger) *ChatbotService {
	return &ChatbotService{completer: completer, logger: logger}
}

// Chat answers message, optionally framed by the page the learner is on.
func (s *ChatbotService) Chat(ctx context.Context, message, pageContext string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", pkgerrors.NewValidationError("Message is required")
	}
	if !s.completer.Configured() {
		return "", pkgerrors.NewUnavailableError("Chatbot not configured. Set GEMINI_API_KEY in environment.")
	}
	if pageContext == "" {
		pageContext = "General query"
	}

	answer, err := s.completer.Complete(ctx, fmt.Sprintf(chatPrompt, pageContext, message))
	if err != nil {
		s.logger.Error("Chat completion failed", zap.Error(err))
		return "", pkgerrors.NewInternalError("Failed to process request").WithCause(err)
	}
	return answer, nil
}

// Health reports whether the chat model is configured.
func (s *ChatbotService) Health() ChatbotHealth {
	return ChatbotHealth{
		Status:           "healthy",
		Service:          "Thrive Learn Chatbot",
		GeminiConfigured: s.completer.Configured(),
	}
}
