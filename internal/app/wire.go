//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/saltbo/cedictx/internal/infrastructure/config"
	"github.com/saltbo/cedictx/internal/infrastructure/database"
	"github.com/saltbo/cedictx/internal/infrastructure/server"
	"github.com/saltbo/cedictx/internal/loader"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewStore,
)

var indexSet = wire.NewSet(
	loader.Load,
)

var handlerSet = wire.NewSet(
	provideHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize(ctx context.Context) (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		indexSet,
		handlerSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
