package chatservice

import (
	"context"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/sashabaranov/go-openai"
)

const (
	historyKey = "ai-chat-history"

	// contextMessages bounds the history sent with each question.
	contextMessages = 20
	maxHistory      = 200
)

type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatService struct {
	client  Completer
	store   *common.LocalStore
	model   string
	timeout time.Duration
}
