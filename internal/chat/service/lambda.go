package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	"github.com/lk2023060901/chat-backend/internal/chat/types"
	apperrors "github.com/lk2023060901/chat-backend/internal/pkg/errors"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/pkg/response"
	"github.com/lk2023060901/chat-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// LambdaHandler serves POST /chat from API Gateway proxy events.
// CORS is expected to be configured on the gateway.
type LambdaHandler struct {
	uc           *biz.ChatUseCase
	logger       *logger.Logger
	maxBodyBytes int64
}

// NewLambdaHandler creates the Lambda handler
func NewLambdaHandler(uc *biz.ChatUseCase, log *logger.Logger, maxBodyBytes int64) (*LambdaHandler, error) {
	if uc == nil {
		return nil, errors.New("chat use case is required")
	}
	if log == nil {
		log = logger.L()
	}
	return &LambdaHandler{
		uc:           uc,
		logger:       log,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// Handle answers one proxy event. Errors are always encoded in the response,
// the returned error is reserved for the Lambda runtime and stays nil.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	requestID := EnsureLambdaRequestID(req)
	reqLogger := h.logger.With(zap.String("request_id", requestID))
	ctx = logger.ToContext(logger.WithRequestID(ctx, requestID), reqLogger)

	resp := h.handle(ctx, req)
	resp.Headers[logger.RequestIDHeader] = requestID

	fields := []zap.Field{
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("ip", validator.PeerIP(req.RequestContext.Identity.SourceIP, "unknown")),
	}
	switch {
	case resp.StatusCode >= 500:
		reqLogger.Error("Lambda Request", fields...)
	case resp.StatusCode >= 400:
		reqLogger.Warn("Lambda Request", fields...)
	default:
		reqLogger.Info("Lambda Request", fields...)
	}

	return resp, nil
}

func (h *LambdaHandler) handle(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if req.HTTPMethod != http.MethodPost {
		resp := errorResponse(apperrors.New(apperrors.ErrMethodNotAllowed))
		resp.Headers["Allow"] = http.MethodPost
		return resp
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			logger.WarnContext(ctx, "failed to decode base64 body", zap.Error(err))
			return validationResponse(&biz.ValidationError{Fields: []types.FieldError{{
				Loc:  []string{"body"},
				Msg:  "Invalid base64-encoded body",
				Type: biz.ErrTypeJSONInvalid,
			}}})
		}
		body = decoded
	}

	if h.maxBodyBytes > 0 && int64(len(body)) > h.maxBodyBytes {
		return errorResponse(apperrors.New(apperrors.ErrRequestTooLarge, fmt.Sprintf("limit is %d bytes", h.maxBodyBytes)))
	}

	out, err := h.uc.Chat(ctx, body)
	if err != nil {
		var verr *biz.ValidationError
		if errors.As(err, &verr) {
			logger.InfoContext(ctx, "chat request rejected", zap.Error(err))
			return validationResponse(verr)
		}
		logger.ErrorContext(ctx, "chat request failed", zap.Error(err))
		return errorResponse(apperrors.Wrap(err, apperrors.ErrInternalServer))
	}

	return jsonResponse(http.StatusOK, out)
}

// EnsureLambdaRequestID returns the X-Request-ID header (any case), the API Gateway
// request ID, or a new UUID, in that order.
func EnsureLambdaRequestID(req events.APIGatewayProxyRequest) string {
	for key, value := range req.Headers {
		if strings.EqualFold(key, logger.RequestIDHeader) && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return logger.EnsureRequestID(req.RequestContext.RequestID)
}

func validationResponse(verr *biz.ValidationError) events.APIGatewayProxyResponse {
	return jsonResponse(apperrors.GetHTTPStatus(apperrors.ErrValidation), response.ErrorResponse{
		Code:    apperrors.ErrValidation,
		Message: apperrors.GetMessage(apperrors.ErrValidation),
		Detail:  verr.Fields,
	})
}

func errorResponse(err *apperrors.AppError) events.APIGatewayProxyResponse {
	return jsonResponse(err.HTTPStatus(), response.ErrorResponse{
		Code:    err.Code,
		Message: apperrors.FormatError(err.Code, err.Details),
	})
}

func jsonResponse(status int, v interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(fmt.Sprintf(`{"code":%d,"message":%q}`,
			apperrors.ErrInternalServer, apperrors.GetMessage(apperrors.ErrInternalServer)))
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
