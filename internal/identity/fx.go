package identity

import (
	"github.com/opensigas/sigas/internal/identity/repository"
	"github.com/opensigas/sigas/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
