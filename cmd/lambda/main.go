package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	"github.com/lk2023060901/chat-backend/internal/chat/service"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Lambda has no config file; everything comes from CHAT_* variables.
	config, err := conf.LoadConfig("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log, logger.Lambda()...)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	logger.SetGlobal(log)

	uc, err := biz.NewChatUseCase(biz.Locale(config.Chat.Locale))
	if err != nil {
		log.Fatal("failed to create chat use case", zap.Error(err))
	}

	h, err := service.NewLambdaHandler(uc, log, config.Server.MaxBodyBytes)
	if err != nil {
		log.Fatal("failed to create handler", zap.Error(err))
	}

	lambda.Start(h.Handle)
}
