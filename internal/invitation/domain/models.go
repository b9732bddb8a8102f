// Package domain contains the invitation model and service contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Invitation lets an admin or manager bring a user into a tenant by email.
// The token is the capability: whoever presents it before expiry joins with
// the role recorded here.
type Invitation struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID  `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Email      string        `gorm:"type:text;not null" json:"email"`
	Role       string        `gorm:"type:text;not null" json:"role"`
	Token      string        `gorm:"type:text;not null;uniqueIndex:ux_invitations_token" json:"-"`
	InvitedBy  snowflake.ID  `gorm:"not null" json:"invited_by"`
	Accepted   bool          `gorm:"not null;default:false" json:"accepted"`
	AcceptedBy *snowflake.ID `json:"accepted_by,omitempty"`
	ExpiresAt  time.Time     `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "invitations" }

// SetTenant binds the invitation to a tenant.
func (i *Invitation) SetTenant(id snowflake.ID) { i.TenantID = id }

// Tenant returns the bound tenant.
func (i *Invitation) Tenant() snowflake.ID { return i.TenantID }
