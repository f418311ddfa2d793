package server

import (
	"errors"
	"fmt"
	"net"

	pb "github.com/lk2023060901/chat-backend/api/chat/v1"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// GRPCServer gRPC 服务器
type GRPCServer struct {
	addr       string
	enabled    bool
	logger     *logger.Logger
	grpcServer *grpc.Server
	health     *health.Server
}

// NewGRPCServer 创建 gRPC 服务器
func NewGRPCServer(
	config *conf.Config,
	log *logger.Logger,
	chatService pb.ChatServiceServer,
) *GRPCServer {
	log = log.Named("grpc")

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.UnaryServerInterceptorWithConfig(log, logger.GRPCInterceptorOptions{
				SkipMethods: []string{healthpb.Health_Check_FullMethodName},
			}),
			logger.RecoveryInterceptor(log),
		),
	)

	// 注册服务
	pb.RegisterChatServiceServer(grpcServer, chatService)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.ChatService_ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// 启用反射（用于 grpcurl 等工具）
	reflection.Register(grpcServer)

	return &GRPCServer{
		addr:       config.Server.GRPCAddr(),
		enabled:    config.Server.GRPCPort != 0,
		logger:     log,
		grpcServer: grpcServer,
		health:     healthServer,
	}
}

// Enabled reports whether a gRPC port is configured
func (s *GRPCServer) Enabled() bool {
	return s.enabled
}

// Start 启动 gRPC 服务器
func (s *GRPCServer) Start() error {
	if !s.enabled {
		s.logger.Info("gRPC server disabled")
		return nil
	}

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	return s.Serve(lis)
}

// Serve 在指定 listener 上提供服务，阻塞直到 Stop
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.logger.Info("starting gRPC server", zap.String("addr", lis.Addr().String()))

	// Stop 可能先于 Serve 执行
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop 停止 gRPC 服务器
func (s *GRPCServer) Stop() {
	s.logger.Info("stopping gRPC server")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
