// Package domain contains persistence models for the tenant service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opensigas/sigas/pkg/scope"
	"gorm.io/datatypes"
)

// Tenant is the isolation root; every scoped entity belongs to exactly one.
type Tenant struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Slug        string            `gorm:"type:text;not null;uniqueIndex:ux_tenants_slug" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Membership represents a user's membership in one tenant. The same external
// identity holds one membership row per tenant joined; the role lives here.
type Membership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:ux_memberships_tenant_user,priority:1" json:"tenant_id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:ux_memberships_tenant_user,priority:2" json:"user_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "memberships" }

// SetTenant implements scope.Scoped.
func (m *Membership) SetTenant(id snowflake.ID) { m.TenantID = id }

// Tenant implements scope.Scoped.
func (m *Membership) Tenant() snowflake.ID { return m.TenantID }

var _ scope.Scoped = (*Membership)(nil)
