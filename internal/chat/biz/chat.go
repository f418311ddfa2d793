package biz

import (
	"context"
	"fmt"

	"github.com/lk2023060901/chat-backend/internal/chat/types"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Locale selects the wording of the reply sentence.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleKO Locale = "ko"

	DefaultLocale = LocaleEN
)

var replyTemplates = map[Locale]string{
	LocaleEN: "'%s' received! (response from backend)",
	LocaleKO: "'%s' 라고 보냈네요! (백엔드에서 온 응답)",
}

// ChatUseCase builds the echo reply for a validated request.
type ChatUseCase struct {
	template string
}

// NewChatUseCase returns a use case replying in the given locale.
// An empty locale selects DefaultLocale.
func NewChatUseCase(locale Locale) (*ChatUseCase, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tmpl, ok := replyTemplates[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported chat locale %q", locale)
	}
	return &ChatUseCase{template: tmpl}, nil
}

// Reply wraps req.Message in the reply template. It never fails and has no side effects
// apart from a debug log line.
func (uc *ChatUseCase) Reply(ctx context.Context, req *types.ChatRequest) *types.ChatResponse {
	logger.DebugContext(ctx, "building chat reply",
		zap.Int("message_len", len(req.Message)),
		zap.Stringp("model", req.Model),
		zap.Intp("max_tokens", req.MaxTokens),
		zap.Float64p("temperature", req.Temperature),
	)

	return &types.ChatResponse{
		Message: fmt.Sprintf(uc.template, req.Message),
	}
}

// Chat validates raw and replies to it. The returned error is always a *ValidationError.
func (uc *ChatUseCase) Chat(ctx context.Context, raw []byte) (*types.ChatResponse, error) {
	req, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	return uc.Reply(ctx, req), nil
}
