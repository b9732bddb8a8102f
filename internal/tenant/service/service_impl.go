// Package service implements tenant lifecycle and membership management.
package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/scope"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	log   *zap.Logger
	db    *gorm.DB
	genID *snowflake.Node
	repo  domain.Repository
}

// New constructs the tenant service.
func New(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("tenant.service"),
		db:    p.DB,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateTenantRequest) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	t := &domain.Tenant{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	if t.Slug == "" {
		return nil, domain.ErrInvalidSlug
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateTenant(ctx, t); err != nil {
			return err
		}
		// The creator is the first admin.
		return repo.AddMember(ctx, &domain.Membership{
			ID:       s.genID.Generate(),
			TenantID: t.ID,
			UserID:   userID,
			Role:     domain.RoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("slug", t.Slug),
	)
	return t, nil
}

func (s *service) Update(ctx context.Context, req domain.UpdateTenantRequest) (*domain.Tenant, error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}

	t, err := s.repo.FindTenantByID(ctx, sc.TenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		t.Name = name
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Metadata != nil {
		t.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.UpdateTenant(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Resolve(ctx context.Context, tenantSlug string, userID snowflake.ID) (*domain.Resolution, error) {
	t, err := s.repo.FindTenantBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.FindMembership(ctx, t.ID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Resolution{Tenant: t, Membership: m}, nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.TenantListItem, error) {
	return s.repo.ListMemberships(ctx, userID)
}

func (s *service) RouteAfterLogin(ctx context.Context, userID snowflake.ID) (*domain.RouteDecision, error) {
	items, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 0:
		return &domain.RouteDecision{Action: domain.RouteCreate}, nil
	case 1:
		return &domain.RouteDecision{Action: domain.RouteDashboard, Slug: items[0].Slug}, nil
	default:
		return &domain.RouteDecision{Action: domain.RouteChoose}, nil
	}
}

func (s *service) ListMembers(ctx context.Context) ([]domain.Member, error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}
	return s.repo.ListMembers(ctx, sc.TenantID)
}

func (s *service) ChangeRole(ctx context.Context, actorID, userID snowflake.ID, role string) (*domain.Membership, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}

	var out *domain.Membership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		m, err := repo.FindMembership(ctx, sc.TenantID, userID)
		if err != nil {
			if err == domain.ErrNoMembership {
				return domain.ErrMemberNotFound
			}
			return err
		}
		if m.Role == role {
			out = m
			return nil
		}
		// Demoting the only admin would orphan the tenant.
		if m.Role == domain.RoleAdmin {
			n, err := repo.CountByRole(ctx, sc.TenantID, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if n <= 1 {
				return domain.ErrLastAdmin
			}
		}
		m.Role = role
		if err := repo.UpdateMembership(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("member role changed",
		zap.String("tenant_id", sc.TenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role),
		zap.String("actor_id", actorID.String()),
	)
	return out, nil
}

func (s *service) RemoveMember(ctx context.Context, actorID, userID snowflake.ID) error {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return scope.ErrMissingTenant
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		m, err := repo.FindMembership(ctx, sc.TenantID, userID)
		if err != nil {
			if err == domain.ErrNoMembership {
				return domain.ErrMemberNotFound
			}
			return err
		}
		if m.Role == domain.RoleAdmin {
			n, err := repo.CountByRole(ctx, sc.TenantID, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if n <= 1 {
				return domain.ErrLastAdmin
			}
		}
		return repo.DeleteMembership(ctx, sc.TenantID, userID)
	})
	if err != nil {
		return err
	}

	s.log.Info("member removed",
		zap.String("tenant_id", sc.TenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}
