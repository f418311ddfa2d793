package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pb "github.com/lk2023060901/chat-backend/api/chat/v1"
	"github.com/lk2023060901/chat-backend/internal/chat/biz"
	"github.com/lk2023060901/chat-backend/internal/chat/service"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func testConfig() *conf.Config {
	return &conf.Config{
		Server: conf.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			GRPCPort:        9090,
			Mode:            gin.TestMode,
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: time.Second,
		},
		CORS: conf.CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"*"},
			ExposeHeaders:    []string{logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		},
		Chat: conf.ChatConfig{Locale: "en"},
	}
}

func testLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{Logger: zap.New(core)}, logs
}

func newTestHTTPServer(t *testing.T, config *conf.Config) (*HTTPServer, *observer.ObservedLogs) {
	t.Helper()
	uc, err := biz.NewChatUseCase(biz.Locale(config.Chat.Locale))
	require.NoError(t, err)
	log, logs := testLogger()
	return NewHTTPServer(config, log, service.NewChatService(uc, config.Server.MaxBodyBytes)), logs
}

func do(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHTTPServer_Routes(t *testing.T) {
	srv, logs := newTestHTTPServer(t, testConfig())
	h := srv.Handler()
	assert.Equal(t, "127.0.0.1:8000", srv.Addr())

	t.Run("chat", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/chat", `{"message":"hello"}`, map[string]string{"Content-Type": "application/json"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `{"message":"'hello' received! (response from backend)"}`, rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get(logger.RequestIDHeader))
	})

	t.Run("validation", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/chat", `{"message":7}`, nil)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 1100, body.Code)
		assert.Equal(t, biz.ErrTypeString, body.Detail[0].Type)
	})

	t.Run("method not allowed", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rr := do(h, method, "/chat", "", nil)

			require.Equal(t, http.StatusMethodNotAllowed, rr.Code, method)
			assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
			assert.JSONEq(t, `{"code":1101,"message":"Method not allowed"}`, rr.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		rr := do(h, http.MethodPost, "/api/chat", `{"message":"hello"}`, nil)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"code":1002,"message":"Resource not found"}`, rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get(logger.RequestIDHeader))
	})

	t.Run("health", func(t *testing.T) {
		before := logs.FilterMessage("HTTP Request").Len()
		rr := do(h, http.MethodGet, "/health", "", map[string]string{logger.RequestIDHeader: "probe"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
		assert.Equal(t, "probe", rr.Header().Get(logger.RequestIDHeader))
		assert.Equal(t, before, logs.FilterMessage("HTTP Request").Len(), "health checks are not logged")
	})
}

func TestHTTPServer_CORS(t *testing.T) {
	const origin = "http://localhost:5173"

	t.Run("any origin is echoed", func(t *testing.T) {
		srv, _ := newTestHTTPServer(t, testConfig())

		rr := do(srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`, map[string]string{"Origin": origin})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		// header names are canonicalized by the middleware
		assert.Contains(t, strings.ToLower(rr.Header().Get("Access-Control-Expose-Headers")), "x-request-id")
	})

	t.Run("preflight", func(t *testing.T) {
		srv, _ := newTestHTTPServer(t, testConfig())

		rr := do(srv.Handler(), http.MethodOptions, "/chat", "", map[string]string{
			"Origin":                         origin,
			"Access-Control-Request-Method":  http.MethodPost,
			"Access-Control-Request-Headers": "content-type",
		})

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("restricted origins", func(t *testing.T) {
		config := testConfig()
		config.CORS.AllowOrigins = []string{"https://app.example.com"}
		srv, _ := newTestHTTPServer(t, config)

		rr := do(srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`, map[string]string{"Origin": "https://app.example.com"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

		rr = do(srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`, map[string]string{"Origin": "https://evil.example.com"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewCORSConfig(t *testing.T) {
	cfg := newCORSConfig(testConfig().CORS)
	require.NotNil(t, cfg.AllowOriginFunc)
	assert.True(t, cfg.AllowOriginFunc("https://anything.test"))
	assert.Empty(t, cfg.AllowOrigins)
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)

	policy := testConfig().CORS
	policy.AllowOrigins = []string{"https://a.test", "https://b.test"}
	cfg = newCORSConfig(policy)
	assert.Nil(t, cfg.AllowOriginFunc)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowOrigins)
}

func TestHTTPServer_StartStop(t *testing.T) {
	config := testConfig()
	config.Server.Port = freePort(t)
	srv, _ := newTestHTTPServer(t, config)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-errCh)
}

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return lis.Addr().(*net.TCPAddr).Port
}

func TestGRPCServer(t *testing.T) {
	uc, err := biz.NewChatUseCase(biz.LocaleEN)
	require.NoError(t, err)
	log, logs := testLogger()
	srv := NewGRPCServer(testConfig(), log, service.NewGRPCChatService(uc))
	require.True(t, srv.Enabled())

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("chat", func(t *testing.T) {
		req, err := structpb.NewStruct(map[string]interface{}{"message": "hello"})
		require.NoError(t, err)

		ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "grpc-req-1")
		var header metadata.MD
		resp, err := pb.NewChatServiceClient(conn).Chat(ctx, req, grpc.Header(&header))
		require.NoError(t, err)
		assert.Equal(t, "'hello' received! (response from backend)", resp.GetFields()["message"].GetStringValue())
		assert.Equal(t, []string{"grpc-req-1"}, header.Get("x-request-id"))

		calls := logs.FilterMessage("gRPC call").All()
		require.NotEmpty(t, calls)
		assert.Equal(t, "grpc-req-1", calls[len(calls)-1].ContextMap()["request_id"])
	})

	t.Run("health", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
			Service: pb.ChatService_ServiceName,
		})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})
}

func TestGRPCServer_StopBeforeServe(t *testing.T) {
	uc, err := biz.NewChatUseCase(biz.LocaleEN)
	require.NoError(t, err)
	log, _ := testLogger()
	srv := NewGRPCServer(testConfig(), log, service.NewGRPCChatService(uc))

	srv.Stop()

	lis := bufconn.Listen(1 << 20)
	assert.NoError(t, srv.Serve(lis))
}

func TestGRPCServer_Disabled(t *testing.T) {
	config := testConfig()
	config.Server.GRPCPort = 0
	uc, err := biz.NewChatUseCase(biz.LocaleEN)
	require.NoError(t, err)
	log, _ := testLogger()

	srv := NewGRPCServer(config, log, service.NewGRPCChatService(uc))

	assert.False(t, srv.Enabled())
	assert.NoError(t, srv.Start())
	srv.Stop()
}
