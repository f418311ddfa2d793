package biz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/lk2023060901/chat-backend/internal/chat/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T, locale Locale) *ChatUseCase {
	t.Helper()
	uc, err := NewChatUseCase(locale)
	require.NoError(t, err)
	return uc
}

func TestNewChatUseCase(t *testing.T) {
	uc, err := NewChatUseCase("")
	require.NoError(t, err)
	assert.Equal(t, replyTemplates[DefaultLocale], uc.template)

	_, err = NewChatUseCase("fr")
	assert.Error(t, err)
}

func TestReply_Template(t *testing.T) {
	uc := newUseCase(t, LocaleEN)

	resp := uc.Reply(context.Background(), &types.ChatRequest{Message: "hello"})
	assert.Equal(t, "'hello' received! (response from backend)", resp.Message)
}

func TestReply_Korean(t *testing.T) {
	uc := newUseCase(t, LocaleKO)

	resp := uc.Reply(context.Background(), &types.ChatRequest{Message: "안녕"})
	assert.Equal(t, "'안녕' 라고 보냈네요! (백엔드에서 온 응답)", resp.Message)
}

func TestReply_MessageVerbatim(t *testing.T) {
	uc := newUseCase(t, LocaleEN)

	messages := []string{"", "%s %d %%", "multi\nline", "'quoted'", strings.Repeat("x", 10000)}
	for _, m := range messages {
		resp := uc.Reply(context.Background(), &types.ChatRequest{Message: m})
		assert.Equal(t, "'"+m+"' received! (response from backend)", resp.Message)
	}
}

func TestReply_OptionalFieldsInert(t *testing.T) {
	uc := newUseCase(t, LocaleEN)
	model, maxTokens, temperature := "gpt-4.1-mini", 256, 0.7

	plain := uc.Reply(context.Background(), &types.ChatRequest{Message: "hi"})
	withOptions := uc.Reply(context.Background(), &types.ChatRequest{
		Message:     "hi",
		Model:       &model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})

	assert.Equal(t, plain, withOptions)
}

func TestChat(t *testing.T) {
	uc := newUseCase(t, LocaleEN)

	resp, err := uc.Chat(context.Background(), []byte(`{"message":"hello","temperature":0.2}`))
	require.NoError(t, err)
	assert.Equal(t, "'hello' received! (response from backend)", resp.Message)

	resp, err = uc.Chat(context.Background(), []byte(`{"temperature":0.2}`))
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestChat_Concurrent(t *testing.T) {
	uc := newUseCase(t, LocaleEN)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.Chat(context.Background(), []byte(`{"message":"same"}`))
			if assert.NoError(t, err) {
				assert.Equal(t, "'same' received! (response from backend)", resp.Message)
			}
		}()
	}
	wg.Wait()
}
