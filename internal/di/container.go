// Package di provides dependency injection configuration for the couchlist server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/di/providers"
	"github.com/jdotfite/couchlist/internal/logger"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/service"
	"github.com/jdotfite/couchlist/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Resolution
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideDirectory)
	do.Provide(injector, providers.ProvideResolver)

	// Business services
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideViewService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Migrations run here, once, when the
// store is first invoked; the HTTP server starts last.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*access.Directory](injector)
	_ = do.MustInvoke[*resolver.Resolver](injector)

	// Business services
	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*service.ViewService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
