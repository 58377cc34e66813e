package app

import (
	"github.com/sirupsen/logrus"

	"github.com/saltbo/cedictx/internal/httpapi"
	"github.com/saltbo/cedictx/internal/infrastructure/config"
	"github.com/saltbo/cedictx/internal/searchindex"
	"github.com/saltbo/cedictx/internal/store"
)

func provideHandler(idx *searchindex.Index, s store.Store, logger *logrus.Logger, cfg *config.Config) *httpapi.Handler {
	return httpapi.NewHandler(idx, s, logger, cfg.Server.Workers)
}
