// Package domain contains persistence models for projects and project grants.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opensigas/sigas/pkg/scope"
	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Project groups environmental and social records under one undertaking
// inside a tenant.
type Project struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID      `gorm:"column:tenant_id;not null;uniqueIndex:ux_projects_tenant_slug,priority:1" json:"tenant_id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Slug        string            `gorm:"type:text;not null;uniqueIndex:ux_projects_tenant_slug,priority:2" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	Status      string            `gorm:"type:text;not null;default:active" json:"status"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// SetTenant implements scope.Scoped.
func (p *Project) SetTenant(id snowflake.ID) { p.TenantID = id }

// Tenant implements scope.Scoped.
func (p *Project) Tenant() snowflake.ID { return p.TenantID }

var _ scope.Scoped = (*Project)(nil)

// ProjectMember is an explicit grant giving a USER-role member visibility
// into one project. Admins and managers never need grants.
type ProjectMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	ProjectID snowflake.ID `gorm:"not null;uniqueIndex:ux_project_members_project_user,priority:1" json:"project_id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:ux_project_members_project_user,priority:2" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectMember) TableName() string { return "project_members" }

// SetTenant implements scope.Scoped.
func (m *ProjectMember) SetTenant(id snowflake.ID) { m.TenantID = id }

// Tenant implements scope.Scoped.
func (m *ProjectMember) Tenant() snowflake.ID { return m.TenantID }

var _ scope.Scoped = (*ProjectMember)(nil)
