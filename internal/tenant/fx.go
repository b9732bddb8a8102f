package tenant

import (
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/tenant/repository"
	"github.com/opensigas/sigas/internal/tenant/service"
)

// Module wires the tenant repository and service.
var Module = fx.Module("tenant",
	fx.Provide(
		repository.NewRepository,
		service.New,
	),
)
