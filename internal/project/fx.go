package project

import (
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/project/service"
)

// Module wires the project service.
var Module = fx.Module("project",
	fx.Provide(service.New),
)
