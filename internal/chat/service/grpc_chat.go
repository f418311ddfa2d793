package service

import (
	"context"
	"errors"
	"strings"

	pb "github.com/lk2023060901/chat-backend/api/chat/v1"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrorDomain is the ErrorInfo domain attached to validation failures
const ErrorDomain = "chat.v1"

// GRPCChatService implements pb.ChatServiceServer on top of the chat use case
type GRPCChatService struct {
	pb.UnimplementedChatServiceServer
	uc *biz.ChatUseCase
}

// NewGRPCChatService creates the gRPC chat service
func NewGRPCChatService(uc *biz.ChatUseCase) *GRPCChatService {
	return &GRPCChatService{uc: uc}
}

// Chat validates the request object exactly like POST /chat and returns {"message": ...}
func (s *GRPCChatService) Chat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		logger.WarnContext(ctx, "failed to encode chat request", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, "request is not a valid JSON object")
	}

	resp, err := s.uc.Chat(ctx, raw)
	if err != nil {
		var verr *biz.ValidationError
		if errors.As(err, &verr) {
			return nil, validationStatus(verr).Err()
		}
		logger.ErrorContext(ctx, "chat request failed", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal server error")
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"message": resp.Message,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode chat response", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return out, nil
}

// validationStatus maps field errors to InvalidArgument with BadRequest and ErrorInfo
// details. ErrorInfo metadata maps each field path to its error type.
func validationStatus(verr *biz.ValidationError) *status.Status {
	st := status.New(codes.InvalidArgument, biz.ErrInvalidRequest.Error())

	badRequest := &errdetails.BadRequest{}
	info := &errdetails.ErrorInfo{
		Reason:   "VALIDATION_FAILED",
		Domain:   ErrorDomain,
		Metadata: make(map[string]string, len(verr.Fields)),
	}
	for _, f := range verr.Fields {
		field := strings.Join(f.Loc, ".")
		badRequest.FieldViolations = append(badRequest.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: f.Msg,
		})
		info.Metadata[field] = f.Type
	}

	detailed, err := st.WithDetails(badRequest, info)
	if err != nil {
		return st
	}
	return detailed
}
