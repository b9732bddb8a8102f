package form

import (
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/internal/form/service"
)

// Module wires the built-in catalog registry and the form service.
var Module = fx.Module("form",
	fx.Provide(
		func() *domain.Registry { return domain.NewRegistry(domain.Catalog()) },
		service.New,
	),
)
