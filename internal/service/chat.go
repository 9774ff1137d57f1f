package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/genai"
)

// ChatService holds the mentor-chat transcript per user and exchanges it
// with the provider in batched turns. Transcripts are in-memory only and
// start fresh each process.
type ChatService struct {
	mu        sync.Mutex
	ai        *genai.Client
	histories map[string][]domain.ChatMessage // keyed by user mobile
}

// NewChatService creates a ChatService backed by the given provider.
func NewChatService(ai *genai.Client) *ChatService {
	return &ChatService{
		ai:        ai,
		histories: make(map[string][]domain.ChatMessage),
	}
}

// Send appends the user's message to the transcript, asks the model for a
// reply with the full history as context, and returns the model's message.
func (s *ChatService) Send(ctx context.Context, mobile, text string) (domain.ChatMessage, error) {
	if text == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: message text is required", domain.ErrInvalidInput)
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	history := append(s.histories[mobile], userMsg)
	s.histories[mobile] = history
	turns := make([]genai.Message, len(history))
	for i, m := range history {
		turns[i] = genai.Message{Role: string(m.Role), Text: m.Text}
	}
	s.mu.Unlock()

	replyText, err := s.ai.Generate(ctx, turns)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("generate reply: %w", err)
	}

	reply := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleModel,
		Text:      replyText,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.histories[mobile] = append(s.histories[mobile], reply)
	s.mu.Unlock()

	return reply, nil
}

// History returns the transcript for the given user in message order.
func (s *ChatService) History(mobile string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.histories[mobile]
	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	return out
}

// Clear discards the transcript for the given user.
func (s *ChatService) Clear(mobile string) {
	s.mu.Lock()
	delete(s.histories, mobile)
	s.mu.Unlock()
}
