package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	apperrors "github.com/lk2023060901/chat-backend/internal/pkg/errors"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// ChatService exposes the chat use case over HTTP
type ChatService struct {
	uc           *biz.ChatUseCase
	maxBodyBytes int64
}

// NewChatService creates the HTTP chat service. Bodies above maxBodyBytes are rejected.
func NewChatService(uc *biz.ChatUseCase, maxBodyBytes int64) *ChatService {
	return &ChatService{
		uc:           uc,
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes registers the chat routes
func (s *ChatService) RegisterRoutes(r gin.IRouter) {
	r.POST("/chat", s.Chat)
}

// Chat handles POST /chat
func (s *ChatService) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	if s.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	}

	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "chat request body too large", zap.Int64("limit", tooLarge.Limit))
			response.HandleError(c, apperrors.Wrap(err, apperrors.ErrRequestTooLarge,
				fmt.Sprintf("limit is %d bytes", tooLarge.Limit)))
			return
		}
		logger.ErrorContext(ctx, "failed to read chat request body", zap.Error(err))
		response.HandleError(c, err)
		return
	}

	resp, err := s.uc.Chat(ctx, raw)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.OK(c, resp)
}

func (s *ChatService) handleError(c *gin.Context, err error) {
	var verr *biz.ValidationError
	if errors.As(err, &verr) {
		logger.InfoContext(c.Request.Context(), "chat request rejected", zap.Error(err))
		response.ValidationError(c, verr.Fields)
		return
	}

	logger.ErrorContext(c.Request.Context(), "chat request failed", zap.Error(err))
	response.HandleError(c, err)
}
