package invitation

import (
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/invitation/repository"
	"github.com/opensigas/sigas/internal/invitation/service"
)

// Module wires the invitation repository and service.
var Module = fx.Module("invitation",
	fx.Provide(
		repository.NewRepository,
		service.New,
	),
)
