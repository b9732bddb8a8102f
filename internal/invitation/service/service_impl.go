// Package service implements the invitation lifecycle.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/invitation/domain"
	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/scope"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	GenID      *snowflake.Node
	Repo       domain.Repository
	TenantRepo tenantdomain.Repository
}

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	genID      *snowflake.Node
	repo       domain.Repository
	tenantRepo tenantdomain.Repository
	now        func() time.Time
}

// New constructs the invitation service.
func New(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("invitation.service"),
		db:         p.DB,
		genID:      p.GenID,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *service) Create(ctx context.Context, req domain.CreateInvitationRequest) (*domain.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	if !tenantdomain.ValidRole(req.Role) {
		return nil, domain.ErrInvalidRole
	}

	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}
	member, _ := tenantctx.MemberFromContext(ctx)

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	inv := &domain.Invitation{
		ID:        s.genID.Generate(),
		TenantID:  sc.TenantID,
		Email:     email,
		Role:      req.Role,
		Token:     token,
		InvitedBy: member.UserID,
		ExpiresAt: s.now().Add(domain.DefaultTTL),
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invitation created",
		zap.String("tenant_id", sc.TenantID.String()),
		zap.String("email", email),
		zap.String("role", req.Role),
	)
	return inv, nil
}

func (s *service) List(ctx context.Context) ([]*domain.Invitation, error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}
	return s.repo.ListPending(ctx, sc.TenantID)
}

func (s *service) Revoke(ctx context.Context, id snowflake.ID) error {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return scope.ErrMissingTenant
	}
	return s.repo.Delete(ctx, sc.TenantID, id)
}

func (s *service) Inspect(ctx context.Context, tenantSlug, token string) (*domain.Preview, error) {
	t, err := s.tenantRepo.FindTenantBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.FindByToken(ctx, t.ID, token)
	if err != nil {
		return nil, err
	}
	if inv.Accepted {
		return nil, domain.ErrAlreadyAccepted
	}
	if s.now().After(inv.ExpiresAt) {
		return nil, domain.ErrExpired
	}

	return &domain.Preview{
		TenantName: t.Name,
		Email:      inv.Email,
		Role:       inv.Role,
		ExpiresAt:  inv.ExpiresAt,
	}, nil
}

func (s *service) Accept(ctx context.Context, tenantSlug, token string, userID snowflake.ID) (*domain.AcceptResult, error) {
	var result *domain.AcceptResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		tenantRepo := s.tenantRepo.WithTx(tx)

		t, err := tenantRepo.FindTenantBySlug(ctx, tenantSlug)
		if err != nil {
			return err
		}

		won, err := repo.MarkAccepted(ctx, t.ID, token, userID, s.now())
		if err != nil {
			return err
		}
		if !won {
			// Losing the flip has three distinct causes; report precisely.
			inv, err := repo.FindByToken(ctx, t.ID, token)
			if err != nil {
				return err
			}
			if inv.Accepted {
				return domain.ErrAlreadyAccepted
			}
			return domain.ErrExpired
		}

		inv, err := repo.FindByToken(ctx, t.ID, token)
		if err != nil {
			return err
		}
		if err := tenantRepo.AddMember(ctx, &tenantdomain.Membership{
			ID:       s.genID.Generate(),
			TenantID: inv.TenantID,
			UserID:   userID,
			Role:     inv.Role,
		}); err != nil {
			if errors.Is(err, tenantdomain.ErrAlreadyMember) {
				return domain.ErrAlreadyMember
			}
			return err
		}

		result = &domain.AcceptResult{
			TenantID:   t.ID,
			TenantSlug: t.Slug,
			Role:       inv.Role,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invitation accepted",
		zap.String("tenant_id", result.TenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", result.Role),
	)
	return result, nil
}
