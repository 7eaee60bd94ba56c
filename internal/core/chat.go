package core

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	// ChatEmptyReply is returned when the backend produced no text
	ChatEmptyReply = "I couldn't generate a response."

	// ChatErrorReply is returned when the backend call failed
	ChatErrorReply = "Sorry, I encountered an error connecting to the AI service."
)

// ChatService answers follow-up questions about a report
type ChatService struct {
	backend ChatBackend
	logger  *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(backend ChatBackend, logger *zap.Logger) *ChatService {
	return &ChatService{
		backend: backend,
		logger:  logger,
	}
}

// Reply always returns displayable text
func (s *ChatService) Reply(ctx context.Context, history []ChatTurn, message string, report *AnalysisResult) string {
	reply, err := s.backend.SendMessage(ctx, ChatInstruction(report), history, message)
	if err != nil {
		s.logger.Error("Chat error", zap.Error(err), zap.Int("history", len(history)))
		return ChatErrorReply
	}
	if strings.TrimSpace(reply) == "" {
		return ChatEmptyReply
	}
	return reply
}
