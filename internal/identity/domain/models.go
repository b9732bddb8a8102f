// Package domain contains persistence models for the identity mirror.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User mirrors an identity-provider account. Tenant membership and role live
// on tenant.Membership; a user row is global and unique per external subject.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Subject   string       `gorm:"type:text;not null;uniqueIndex:ux_users_subject" json:"subject"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
