package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/chat-backend/internal/chat/service"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/pkg/response"
	"go.uber.org/zap"
)

const healthPath = "/health"

type HTTPServer struct {
	server *http.Server
	router *gin.Engine
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	chatService *service.ChatService,
) *HTTPServer {
	gin.SetMode(config.Server.Mode)
	log = log.Named("http")

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{
		SkipPaths: []string{healthPath},
	}))
	router.Use(logger.GinRecovery(log, response.InternalError))
	router.Use(CORSMiddleware(config.CORS))

	router.NoRoute(response.NotFound)
	router.NoMethod(response.MethodNotAllowed)

	// Health check
	router.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	chatService.RegisterRoutes(router)

	return &HTTPServer{
		server: &http.Server{
			Addr:              config.Server.HTTPAddr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
		logger: log,
	}
}

// Handler returns the root handler, for tests and embedding
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start blocks serving HTTP until Stop is called
func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests until ctx expires
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
