package injector

import (
	"github.com/google/wire"
	pb "github.com/lk2023060901/chat-backend/api/chat/v1"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	"github.com/lk2023060901/chat-backend/internal/chat/service"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Use cases
	useCaseProviderSet,

	// HTTP/gRPC services
	serviceProviderSet,

	// Servers
	serverProviderSet,
)

var useCaseProviderSet = wire.NewSet(
	provideChatUseCase,
)

var serviceProviderSet = wire.NewSet(
	provideChatService,
	provideGRPCChatService,
)

var serverProviderSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewGRPCServer,
)

func provideChatUseCase(config *conf.Config) (*biz.ChatUseCase, error) {
	return biz.NewChatUseCase(biz.Locale(config.Chat.Locale))
}

func provideChatService(uc *biz.ChatUseCase, config *conf.Config) *service.ChatService {
	return service.NewChatService(uc, config.Server.MaxBodyBytes)
}

func provideGRPCChatService(uc *biz.ChatUseCase) pb.ChatServiceServer {
	return service.NewGRPCChatService(uc)
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
	grpcServer *server.GRPCServer,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
		GRPCServer: grpcServer,
	}
}
