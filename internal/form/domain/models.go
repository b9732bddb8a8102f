// Package domain contains the form entry model, the form-type registry and
// payload validation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opensigas/sigas/pkg/scope"
	"gorm.io/datatypes"
)

// Entry is one submitted form of any registered type. The payload holds the
// type-specific fields; the registry decides what is valid inside it.
type Entry struct {
	ID snowflake.ID `gorm:"primaryKey" json:"id"`
	scope.TenantScoped
	scope.ProjectScoped
	TypeCode  string            `gorm:"column:type_code;type:text;not null;index" json:"type_code"`
	Status    string            `gorm:"type:text" json:"status"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null" json:"payload"`
	CreatedBy snowflake.ID      `gorm:"not null" json:"created_by"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "form_entries" }
