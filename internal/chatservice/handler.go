package chatservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrUnavailable = errors.New("chat assistant is not configured")
	ErrNoAnswer    = errors.New("chat assistant returned no answer")
)

const systemPrompt = `You are the OG Camping concierge. You help customers choose camping services, equipment rentals and combos, plan trips in Vietnam and understand bookings. Answer in the language of the question. Keep answers short and practical. If you do not know a price or availability, say so and suggest contacting OG Camping staff.`

// NewOpenAIClient returns nil when no token is configured.
func NewOpenAIClient(token, baseURL string) *openai.Client {
	if len(token) < 2 {
		return nil
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(cfg)
}

func NewChatService(client Completer, store *common.LocalStore, model string, timeout time.Duration) *ChatService {
	if model == "" {
		model = openai.GPT4oMini
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ChatService{client: client, store: store, model: model, timeout: timeout}
}

func (s *ChatService) History(ctx context.Context, clientID string) ([]Message, error) {
	v := common.NewValidator()
	validateClientID(v, clientID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	history := []Message{}
	if _, err := s.store.Get(ctx, common.LocalKey(clientID, historyKey), &history); err != nil {
		return nil, err
	}

	return history, nil
}

// Ask sends question with the recent history and stores both turns.
func (s *ChatService) Ask(ctx context.Context, clientID, question string) (*Message, error) {
	question = strings.TrimSpace(question)

	v := common.NewValidator()
	validateClientID(v, clientID)
	validateQuestion(v, question)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.client == nil {
		return nil, ErrUnavailable
	}

	history, err := s.History(ctx, clientID)
	if err != nil {
		return nil, err
	}

	recent := history
	if len(recent) > contextMessages {
		recent = recent[len(recent)-contextMessages:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(recent)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range recent {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrNoAnswer
	}

	now := time.Now().UTC()
	answer := Message{Role: openai.ChatMessageRoleAssistant, Content: resp.Choices[0].Message.Content, CreatedAt: now}

	history = append(history,
		Message{Role: openai.ChatMessageRoleUser, Content: question, CreatedAt: now},
		answer,
	)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	if err := s.store.Set(ctx, common.LocalKey(clientID, historyKey), history); err != nil {
		return nil, err
	}

	return &answer, nil
}

func (s *ChatService) Reset(ctx context.Context, clientID string) error {
	v := common.NewValidator()
	validateClientID(v, clientID)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.store.Delete(ctx, common.LocalKey(clientID, historyKey))
}
