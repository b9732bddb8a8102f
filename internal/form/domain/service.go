package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	"github.com/opensigas/sigas/pkg/db/pagination"
)

var (
	ErrUnknownType    = errors.New("unknown form type")
	ErrMissingProject = errors.New("form type requires a project scope")
	ErrNotFound       = errors.New("form entry not found")
	ErrUnknownLookup  = errors.New("lookup reference does not exist")
)

type CreateEntryRequest struct {
	Status  string         `json:"status"`
	Payload map[string]any `json:"payload" binding:"required"`
}

type UpdateEntryRequest struct {
	Status  *string        `json:"status"`
	Payload map[string]any `json:"payload"`
}

// LookupResolver checks that a lookup reference exists under the caller's
// scope. Implemented by the lookup service.
type LookupResolver interface {
	Exists(ctx context.Context, kind string, id snowflake.ID) (bool, error)
}

// Service owns form entries of every registered type.
type Service interface {
	Types(ctx context.Context) []FormType
	Create(ctx context.Context, typeCode string, req CreateEntryRequest, createdBy snowflake.ID) (*Entry, error)
	List(ctx context.Context, typeCode string, pg pagination.Pagination) ([]*Entry, *pagination.PageInfo, error)
	Get(ctx context.Context, typeCode string, id snowflake.ID) (*Entry, error)
	Update(ctx context.Context, typeCode string, id snowflake.ID, req UpdateEntryRequest) (*Entry, error)
	Delete(ctx context.Context, typeCode string, id snowflake.ID) error
}
