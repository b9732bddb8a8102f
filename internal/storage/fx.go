package storage

import (
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/storage/service"
)

// Module wires the S3 uploader and the storage service.
var Module = fx.Module("storage",
	fx.Provide(
		service.NewUploader,
		service.New,
	),
)
