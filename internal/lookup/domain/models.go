// Package domain contains the shared lookup table model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opensigas/sigas/pkg/scope"
)

// Known lookup kinds. Form payload fields reference rows of these kinds.
var Kinds = []string{
	"categoria",
	"area_actuacao",
	"factor_ambiental",
	"risco_impacto",
	"tipo_reclamacao",
}

// ValidKind reports whether s is a known lookup kind.
func ValidKind(s string) bool {
	for _, k := range Kinds {
		if k == s {
			return true
		}
	}
	return false
}

var (
	ErrInvalidKind = errors.New("unknown lookup kind")
	ErrInvalidName = errors.New("lookup name is required")
	ErrDuplicate   = errors.New("lookup with this name already exists")
	ErrNotFound    = errors.New("lookup not found")
)

// Lookup is one row of a shared reference table. Rows are tenant-scoped and
// optionally narrowed to a project.
type Lookup struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`
	scope.TenantScoped
	scope.ProjectScoped
	Kind      string    `gorm:"type:text;not null;index" json:"kind"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lookup) TableName() string { return "lookups" }

type CreateLookupRequest struct {
	Kind string `json:"kind" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type UpdateLookupRequest struct {
	Name string `json:"name" binding:"required"`
}

// Service owns the shared lookup tables.
type Service interface {
	Create(ctx context.Context, req CreateLookupRequest) (*Lookup, error)
	List(ctx context.Context, kind string) ([]*Lookup, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateLookupRequest) (*Lookup, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// Exists reports whether a row of the given kind is visible under the
	// caller's scope. Used to validate form payload references.
	Exists(ctx context.Context, kind string, id snowflake.ID) (bool, error)
}
