package providers

import (
	"github.com/samber/do/v2"

	"github.com/jdotfite/couchlist/internal/access"
	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/logger"
	"github.com/jdotfite/couchlist/internal/resolver"
	"github.com/jdotfite/couchlist/internal/service"
	"github.com/jdotfite/couchlist/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideDirectory provides the collaboration directory.
func ProvideDirectory(i do.Injector) (*access.Directory, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return access.NewDirectory(storeHandle.Store, log.Component("access")), nil
}

// ProvideResolver provides the list resolver.
func ProvideResolver(i do.Injector) (*resolver.Resolver, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	directory := do.MustInvoke[*access.Directory](i)
	log := do.MustInvoke[*logger.Logger](i)

	return resolver.New(storeHandle.Store, directory, log.Component("resolver")), nil
}

// ProvideListService provides the list service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	res := do.MustInvoke[*resolver.Resolver](i)
	directory := do.MustInvoke[*access.Directory](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(
		storeHandle.Store,
		res,
		directory,
		validator,
		cfg.Lists,
		cfg.Preview,
		log.Component("lists"),
	), nil
}

// ProvideViewService provides the status and tag view service.
func ProvideViewService(i do.Injector) (*service.ViewService, error) {
	res := do.MustInvoke[*resolver.Resolver](i)
	directory := do.MustInvoke[*access.Directory](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewViewService(res, directory, log.Component("views")), nil
}
