package chatservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	completer := new(MockCompleter)
	s := NewChatService(completer, common.NewTestLocalStore(t, time.Hour), "test-model", time.Second)
	ctx := context.Background()

	completer.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "test-model" && len(req.Messages) == 2 &&
			req.Messages[0].Role == openai.ChatMessageRoleSystem &&
			req.Messages[1].Content == "Giá thuê lều?"
	})).Return(answer("Lều 4 người giá 150.000đ/ngày."), nil).Once()

	reply, err := s.Ask(ctx, "device-1", "  Giá thuê lều?  ")
	require.NoError(t, err)
	assert.Equal(t, "Lều 4 người giá 150.000đ/ngày.", reply.Content)

	completer.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Messages) == 4 && req.Messages[1].Content == "Giá thuê lều?"
	})).Return(answer("Có."), nil).Once()

	_, err = s.Ask(ctx, "device-1", "Có giao tận nơi không?")
	require.NoError(t, err)

	history, err := s.History(ctx, "device-1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, openai.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, history[3].Role)

	completer.AssertExpectations(t)

	require.NoError(t, s.Reset(ctx, "device-1"))
	history, err = s.History(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAskBoundsContext(t *testing.T) {
	completer := new(MockCompleter)
	store := common.NewTestLocalStore(t, time.Hour)
	s := NewChatService(completer, store, "test-model", time.Second)
	ctx := context.Background()

	history := make([]Message, 0, 30)
	for i := 0; i < 30; i++ {
		history = append(history, Message{Role: openai.ChatMessageRoleUser, Content: fmt.Sprint(i)})
	}
	require.NoError(t, store.Set(ctx, common.LocalKey("device-1", historyKey), history))

	completer.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return len(req.Messages) == contextMessages+2 && req.Messages[1].Content == "10"
	})).Return(answer("ok"), nil).Once()

	_, err := s.Ask(ctx, "device-1", "hello")
	require.NoError(t, err)
	completer.AssertExpectations(t)
}

func TestAskErrors(t *testing.T) {
	store := common.NewTestLocalStore(t, time.Hour)
	ctx := context.Background()

	_, err := NewChatService(nil, store, "", 0).Ask(ctx, "device-1", "hello")
	assert.ErrorIs(t, err, ErrUnavailable)

	completer := new(MockCompleter)
	s := NewChatService(completer, store, "test-model", time.Second)

	_, err = s.Ask(ctx, "device-1", "   ")
	var verr common.ValidationError
	assert.ErrorAs(t, err, &verr)

	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, errors.New("rate limited")).Once()
	_, err = s.Ask(ctx, "device-1", "hello")
	assert.Error(t, err)

	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(openai.ChatCompletionResponse{}, nil).Once()
	_, err = s.Ask(ctx, "device-1", "hello")
	assert.ErrorIs(t, err, ErrNoAnswer)

	history, err := s.History(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
