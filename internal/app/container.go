package app

import (
	"github.com/sirupsen/logrus"

	"github.com/saltbo/cedictx/internal/infrastructure/server"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Logger *logrus.Logger
	Server *server.Server
}
