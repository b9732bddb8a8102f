package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Roles a membership can hold. Higher roles inherit the permissions of
// lower ones through the authorization policy.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// ValidRole reports whether s is one of the known membership roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

var (
	ErrInvalidName     = errors.New("tenant name is required")
	ErrInvalidSlug     = errors.New("tenant slug is required")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSlugTaken       = errors.New("tenant slug already in use")
	ErrNotFound        = errors.New("tenant not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrNoMembership    = errors.New("no membership in tenant")
	ErrAlreadyMember   = errors.New("user is already a member")
	ErrLastAdmin       = errors.New("tenant must retain at least one admin")
	ErrSelfRemoval     = errors.New("admins cannot remove themselves")
	ErrInvalidMetadata = errors.New("invalid metadata")
)

// RouteAction tells the frontend where to land a user after login.
type RouteAction string

const (
	RouteCreate    RouteAction = "create"
	RouteDashboard RouteAction = "dashboard"
	RouteChoose    RouteAction = "choose"
)

type RouteDecision struct {
	Action RouteAction `json:"action"`
	Slug   string      `json:"slug,omitempty"`
}

// Resolution pairs a tenant with the caller's membership in it.
type Resolution struct {
	Tenant     *Tenant
	Membership *Membership
}

type CreateTenantRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type UpdateTenantRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// TenantListItem is a tenant as seen from one user's membership list.
type TenantListItem struct {
	Tenant
	Role string `json:"role"`
}

type Member struct {
	Membership
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service owns tenant lifecycle and membership management.
type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateTenantRequest) (*Tenant, error)
	Update(ctx context.Context, req UpdateTenantRequest) (*Tenant, error)
	Resolve(ctx context.Context, slug string, userID snowflake.ID) (*Resolution, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]TenantListItem, error)
	RouteAfterLogin(ctx context.Context, userID snowflake.ID) (*RouteDecision, error)

	ListMembers(ctx context.Context) ([]Member, error)
	ChangeRole(ctx context.Context, actorID, userID snowflake.ID, role string) (*Membership, error)
	RemoveMember(ctx context.Context, actorID, userID snowflake.ID) error
}

// Repository is the persistence boundary for tenants and memberships.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateTenant(ctx context.Context, t *Tenant) error
	FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindTenantByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
	UpdateTenant(ctx context.Context, t *Tenant) error

	AddMember(ctx context.Context, m *Membership) error
	FindMembership(ctx context.Context, tenantID, userID snowflake.ID) (*Membership, error)
	ListMemberships(ctx context.Context, userID snowflake.ID) ([]TenantListItem, error)
	ListMembers(ctx context.Context, tenantID snowflake.ID) ([]Member, error)
	CountByRole(ctx context.Context, tenantID snowflake.ID, role string) (int64, error)
	UpdateMembership(ctx context.Context, m *Membership) error
	DeleteMembership(ctx context.Context, tenantID, userID snowflake.ID) error
}
