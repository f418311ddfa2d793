package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/chat-backend/internal/conf"
)

// newCORSConfig translates the configured policy into gin-contrib/cors settings.
// A "*" origin is served by echoing the caller's Origin so credentials keep working.
func newCORSConfig(policy conf.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:     policy.AllowMethods,
		AllowHeaders:     policy.AllowHeaders,
		ExposeHeaders:    policy.ExposeHeaders,
		AllowCredentials: policy.AllowCredentials,
		MaxAge:           policy.MaxAge,
	}

	if policy.AllowsAnyOrigin() {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = policy.AllowOrigins
	}

	return cfg
}

// CORSMiddleware returns the CORS handler for policy
func CORSMiddleware(policy conf.CORSConfig) gin.HandlerFunc {
	return cors.New(newCORSConfig(policy))
}
