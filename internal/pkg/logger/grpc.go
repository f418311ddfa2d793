package logger

import (
	"context"
	"path"
	"time"

	"github.com/lk2023060901/chat-backend/internal/pkg/validator"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const requestIDMetadataKey = "x-request-id"

// GRPCInterceptorOptions configures the gRPC interceptor
type GRPCInterceptorOptions struct {
	// SkipMethods is a list of methods to skip logging (e.g., "/grpc.health.v1.Health/Check")
	SkipMethods []string
	// LogPayload enables logging request and response payload
	LogPayload bool
}

// UnaryServerInterceptorWithConfig returns a new unary server interceptor with custom config.
// The request ID is read from incoming metadata (or generated) and sent back as a header.
func UnaryServerInterceptorWithConfig(logger *Logger, opts GRPCInterceptorOptions) grpc.UnaryServerInterceptor {
	skipMethods := make(map[string]bool, len(opts.SkipMethods))
	for _, method := range opts.SkipMethods {
		skipMethods[method] = true
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := EnsureRequestID(extractRequestID(ctx))
		reqLogger := logger.With(zap.String("request_id", requestID))
		ctx = ToContext(WithRequestID(ctx, requestID), reqLogger)

		// Outside a real transport stream (unit tests) there is nowhere to send headers.
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, requestID))

		if skipMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		start := time.Now()
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("service", path.Dir(info.FullMethod)[1:]),
			zap.String("rpc", path.Base(info.FullMethod)),
			zap.String("ip", peerIP(ctx)),
		}

		if opts.LogPayload {
			fields = append(fields, zap.Any("request", req))
		}

		resp, err := handler(ctx, req)

		fields = append(fields, zap.Duration("latency", time.Since(start)))

		st, _ := status.FromError(err)
		fields = append(fields, zap.String("code", st.Code().String()))

		if opts.LogPayload && err == nil && resp != nil {
			fields = append(fields, zap.Any("response", resp))
		}

		if err != nil {
			fields = append(fields, zap.Error(err))
			fields = append(fields, zap.String("message", st.Message()))
		}

		switch st.Code() {
		case codes.OK:
			reqLogger.Info("gRPC call", fields...)
		case codes.Canceled, codes.DeadlineExceeded, codes.NotFound, codes.InvalidArgument:
			reqLogger.Warn("gRPC call", fields...)
		default:
			reqLogger.Error("gRPC call", fields...)
		}

		return resp, err
	}
}

// extractRequestID extracts request ID from the context or incoming gRPC metadata
func extractRequestID(ctx context.Context) string {
	if requestID := GetRequestID(ctx); requestID != "" {
		return requestID
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 {
			return values[0]
		}
	}

	return ""
}

// peerIP returns the caller IP, or "unknown" for non-IP transports
func peerIP(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return validator.PeerIP(p.Addr.String(), "unknown")
	}
	return "unknown"
}

// RecoveryInterceptor returns a unary server interceptor for panic recovery
func RecoveryInterceptor(logger *Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC panic recovered",
					zap.String("request_id", GetRequestID(ctx)),
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)

				err = status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}
