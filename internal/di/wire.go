//go:build wireinject
// +build wireinject

package di

import (
	"net/http"

	"github.com/google/wire"

	"hdfhr-backend/internal/config"
)

// InitializeHandler builds the full HTTP handler via wire. The manual
// wiring in container.go stays the runtime path; this injector keeps the
// provider graph honest (`wire check ./internal/di`).
func InitializeHandler(cfg *config.Config) (http.Handler, error) {
	wire.Build(
		ProvideLogger,
		ProvideCollector,
		ProvideEntryStore,
		ProvideProber,
		ProvideQueryCache,
		ProvideUpstream,
		ProvideWarmups,
		ProvideHandlers,
		ProvideHTTPHandler,
	)
	return nil, nil
}
