//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
)

// InitApp initializes the application with Wire
func InitApp(config *conf.Config, log *logger.Logger) (*App, error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil
}
