package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/injector"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	configFile = pflag.StringP("config", "c", "config.yaml", "config file path")
)

func main() {
	pflag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	var logOpts []logger.Option
	if config.Server.Mode == gin.DebugMode {
		logOpts = logger.Development()
	}

	log, err := logger.New(&config.Log, logOpts...)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	logger.SetGlobal(log)

	log.Info("config loaded successfully",
		zap.String("config", *configFile),
		zap.String("http_addr", config.Server.HTTPAddr()),
		zap.Int("grpc_port", config.Server.GRPCPort),
		zap.String("locale", config.Chat.Locale),
	)

	app, err := injector.InitApp(config, log)
	if err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
