package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
)

var (
	ErrInvalidName     = errors.New("project name is required")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrSlugTaken       = errors.New("project slug already in use")
	ErrNotFound        = errors.New("project not found")
	ErrForbidden       = errors.New("no access to project")
	ErrNotTenantMember = errors.New("user is not a member of the tenant")
	ErrAlreadyGranted  = errors.New("user already has access to project")
	ErrGrantNotFound   = errors.New("project grant not found")
)

// Access decides which projects a member can see. Admins and managers see
// the whole tenant; users see only projects they were granted.
type Access interface {
	// Narrow restricts a project list query to visible rows.
	Narrow(stmt *gorm.DB) *gorm.DB
	// Allows reports whether the holder may see the given project, assuming
	// it already passed the tenant filter.
	Allows(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (bool, error)
}

// TenantWideAccess sees every project in the tenant.
type TenantWideAccess struct{}

func (TenantWideAccess) Narrow(stmt *gorm.DB) *gorm.DB { return stmt }

func (TenantWideAccess) Allows(context.Context, *gorm.DB, snowflake.ID) (bool, error) {
	return true, nil
}

// ExplicitGrantAccess sees only projects with a grant row for the user.
type ExplicitGrantAccess struct {
	UserID snowflake.ID
}

func (a ExplicitGrantAccess) Narrow(stmt *gorm.DB) *gorm.DB {
	return stmt.Where(
		"id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
		a.UserID,
	)
}

func (a ExplicitGrantAccess) Allows(ctx context.Context, db *gorm.DB, projectID snowflake.ID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, a.UserID).
		Count(&n).Error
	return n > 0, err
}

// AccessFor maps a membership role to its project visibility.
func AccessFor(role string, userID snowflake.ID) Access {
	if role == tenantdomain.RoleUser {
		return ExplicitGrantAccess{UserID: userID}
	}
	return TenantWideAccess{}
}

type CreateProjectRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type UpdateProjectRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	Metadata    map[string]any `json:"metadata"`
}

// MemberGrant is a grant joined with the user it names.
type MemberGrant struct {
	ProjectMember
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service owns project lifecycle and explicit grants.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Get(ctx context.Context, id snowflake.ID) (*Project, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateProjectRequest) (*Project, error)
	Delete(ctx context.Context, id snowflake.ID) error

	Grant(ctx context.Context, projectID, userID snowflake.ID) (*ProjectMember, error)
	Revoke(ctx context.Context, projectID, userID snowflake.ID) error
	ListGrants(ctx context.Context, projectID snowflake.ID) ([]MemberGrant, error)
}
