package lookup

import (
	"go.uber.org/fx"

	formdomain "github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/internal/lookup/domain"
	"github.com/opensigas/sigas/internal/lookup/service"
)

// Module wires the lookup service and exposes it as the resolver form
// payload validation uses.
var Module = fx.Module("lookup",
	fx.Provide(
		service.New,
		func(s domain.Service) formdomain.LookupResolver { return s },
	),
)
