// Package service implements project lifecycle and explicit access grants.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/project/domain"
	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/db"
	"github.com/opensigas/sigas/pkg/db/option"
	"github.com/opensigas/sigas/pkg/scope"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	GenID      *snowflake.Node
	TenantRepo tenantdomain.Repository
}

type service struct {
	log        *zap.Logger
	db         *gorm.DB
	genID      *snowflake.Node
	tenantRepo tenantdomain.Repository
}

// New constructs the project service.
func New(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("project.service"),
		db:         p.DB,
		genID:      p.GenID,
		tenantRepo: p.TenantRepo,
	}
}

// accessOption adapts an Access narrowing into a query option.
type accessOption struct {
	access domain.Access
}

func (o accessOption) Apply(stmt *gorm.DB) *gorm.DB { return o.access.Narrow(stmt) }

func (s *service) access(ctx context.Context) domain.Access {
	member, ok := tenantctx.MemberFromContext(ctx)
	if !ok {
		// No member on the context means nothing is visible.
		return domain.ExplicitGrantAccess{}
	}
	return domain.AccessFor(member.Role, member.UserID)
}

func (s *service) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusActive,
		Metadata:    datatypes.JSONMap(req.Metadata),
	}
	if err := projects.Create(ctx, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("project created",
		zap.String("project_id", p.ID.String()),
		zap.String("tenant_id", p.TenantID.String()),
		zap.String("slug", p.Slug),
	)
	return p, nil
}

func (s *service) List(ctx context.Context) ([]*domain.Project, error) {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}
	return projects.Find(ctx, &domain.Project{},
		accessOption{access: s.access(ctx)},
		option.WithSortBy("created_at DESC"),
	)
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}
	p, err := projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	ok, err := s.access(ctx).Allows(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateProjectRequest) (*domain.Project, error) {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusActive, domain.StatusArchived:
			updates["status"] = *req.Status
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Metadata != nil {
		updates["metadata"] = datatypes.JSONMap(req.Metadata)
	}

	if len(updates) > 0 {
		if err := projects.Update(ctx, id, updates); err != nil {
			if errors.Is(err, scope.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
	}
	p, err := projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := projects.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, scope.ErrNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		// Grants die with the project.
		return tx.Where("project_id = ?", id).Delete(&domain.ProjectMember{}).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("project deleted", zap.String("project_id", id.String()))
	return nil
}

func (s *service) Grant(ctx context.Context, projectID, userID snowflake.ID) (*domain.ProjectMember, error) {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}
	if _, err := projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Grants are only meaningful for tenant members.
	sc := projects.Scope()
	if _, err := s.tenantRepo.FindMembership(ctx, sc.TenantID, userID); err != nil {
		if errors.Is(err, tenantdomain.ErrNoMembership) {
			return nil, domain.ErrNotTenantMember
		}
		return nil, err
	}

	grants, err := scope.FromContext[domain.ProjectMember](ctx, s.db)
	if err != nil {
		return nil, err
	}
	grant := &domain.ProjectMember{
		ID:        s.genID.Generate(),
		ProjectID: projectID,
		UserID:    userID,
	}
	if err := grants.Create(ctx, grant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyGranted
		}
		return nil, err
	}

	s.log.Info("project access granted",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return grant, nil
}

func (s *service) Revoke(ctx context.Context, projectID, userID snowflake.ID) error {
	grants, err := scope.FromContext[domain.ProjectMember](ctx, s.db)
	if err != nil {
		return err
	}
	grant, err := grants.FindOne(ctx, &domain.ProjectMember{ProjectID: projectID, UserID: userID})
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return domain.ErrGrantNotFound
		}
		return err
	}
	if err := grants.Delete(ctx, grant.ID); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return domain.ErrGrantNotFound
		}
		return err
	}
	return nil
}

func (s *service) ListGrants(ctx context.Context, projectID snowflake.ID) ([]domain.MemberGrant, error) {
	projects, err := scope.FromContext[domain.Project](ctx, s.db)
	if err != nil {
		return nil, err
	}
	if _, err := projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	sc := projects.Scope()
	var out []domain.MemberGrant
	err = s.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.*, users.email AS email, users.name AS name").
		Joins("JOIN users ON users.id = project_members.user_id").
		Where("project_members.tenant_id = ? AND project_members.project_id = ?", sc.TenantID, projectID).
		Order("project_members.created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
