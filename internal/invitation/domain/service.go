package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Invitations expire after this long unless the caller asks otherwise.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrInvalidEmail    = errors.New("invitation email is required")
	ErrInvalidRole     = errors.New("invalid invitation role")
	ErrNotFound        = errors.New("invitation not found")
	ErrExpired         = errors.New("invitation has expired")
	ErrAlreadyAccepted = errors.New("invitation was already accepted")
	ErrAlreadyMember   = errors.New("user is already a member of the tenant")
)

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// Preview is what the invite landing page may show before authentication.
type Preview struct {
	TenantName string    `json:"tenant_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// AcceptResult reports the tenant the user just joined.
type AcceptResult struct {
	TenantID   snowflake.ID `json:"tenant_id"`
	TenantSlug string       `json:"tenant_slug"`
	Role       string       `json:"role"`
}

// Service owns the invitation lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateInvitationRequest) (*Invitation, error)
	List(ctx context.Context) ([]*Invitation, error)
	Revoke(ctx context.Context, id snowflake.ID) error

	// Inspect and Accept run outside a membership scope; the invite link
	// carries the tenant slug and the token is the proof.
	Inspect(ctx context.Context, tenantSlug, token string) (*Preview, error)
	Accept(ctx context.Context, tenantSlug, token string, userID snowflake.ID) (*AcceptResult, error)
}

// Repository is the persistence boundary for invitations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, inv *Invitation) error
	FindByToken(ctx context.Context, tenantID snowflake.ID, token string) (*Invitation, error)
	// MarkAccepted flips the invitation in one conditional update and
	// reports whether this caller won the flip.
	MarkAccepted(ctx context.Context, tenantID snowflake.ID, token string, userID snowflake.ID, now time.Time) (bool, error)
	ListPending(ctx context.Context, tenantID snowflake.ID) ([]*Invitation, error)
	Delete(ctx context.Context, tenantID, id snowflake.ID) error
}
