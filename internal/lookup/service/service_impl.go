// Package service implements the shared lookup tables.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/lookup/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/db/option"
	"github.com/opensigas/sigas/pkg/scope"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	DB    *gorm.DB
	GenID *snowflake.Node
}

type service struct {
	log   *zap.Logger
	db    *gorm.DB
	genID *snowflake.Node
}

// New constructs the lookup service.
func New(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("lookup.service"),
		db:    p.DB,
		genID: p.GenID,
	}
}

// accessor binds lookup access to the tenant only. Rows are tenant-level or
// project-narrowed; visibility is decided per row, so the project filter is
// not merged into the query.
func (s *service) accessor(ctx context.Context) (*scope.Accessor[domain.Lookup, *domain.Lookup], tenantctx.Scope, error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, tenantctx.Scope{}, scope.ErrMissingTenant
	}
	tenantOnly := tenantctx.Scope{TenantID: sc.TenantID}
	acc, err := scope.NewAccessor[domain.Lookup](s.db, tenantOnly)
	return acc, sc, err
}

// visible reports whether a row is usable under the caller's scope: rows
// without a project are tenant-wide, rows with one belong to that project.
func visible(row *domain.Lookup, sc tenantctx.Scope) bool {
	if row.ProjectID == nil {
		return true
	}
	return sc.ProjectID != nil && *row.ProjectID == *sc.ProjectID
}

func (s *service) Create(ctx context.Context, req domain.CreateLookupRequest) (*domain.Lookup, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if !domain.ValidKind(kind) {
		return nil, domain.ErrInvalidKind
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	acc, sc, err := s.accessor(ctx)
	if err != nil {
		return nil, err
	}

	// The natural key is kind+name inside the visible set.
	existing, err := acc.Find(ctx, &domain.Lookup{Kind: kind, Name: name})
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		if visible(row, sc) {
			return nil, domain.ErrDuplicate
		}
	}

	row := &domain.Lookup{
		ID:   s.genID.Generate(),
		Kind: kind,
		Name: name,
	}
	row.SetProject(sc.ProjectID)
	if err := acc.Create(ctx, row); err != nil {
		return nil, err
	}

	s.log.Info("lookup created",
		zap.String("kind", kind),
		zap.String("lookup_id", row.ID.String()),
		zap.String("tenant_id", row.TenantID.String()),
	)
	return row, nil
}

func (s *service) List(ctx context.Context, kind string) ([]*domain.Lookup, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !domain.ValidKind(kind) {
		return nil, domain.ErrInvalidKind
	}
	acc, sc, err := s.accessor(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := acc.Find(ctx, &domain.Lookup{Kind: kind}, option.WithSortBy("name ASC"))
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, row := range rows {
		if visible(row, sc) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateLookupRequest) (*domain.Lookup, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	acc, sc, err := s.accessor(ctx)
	if err != nil {
		return nil, err
	}
	row, err := acc.FindByID(ctx, id)
	if err != nil || !visible(row, sc) {
		return nil, domain.ErrNotFound
	}

	siblings, err := acc.Find(ctx, &domain.Lookup{Kind: row.Kind, Name: name})
	if err != nil {
		return nil, err
	}
	for _, sib := range siblings {
		if sib.ID != row.ID && visible(sib, sc) {
			return nil, domain.ErrDuplicate
		}
	}

	if err := acc.Update(ctx, id, map[string]any{"name": name}); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	row.Name = name
	return row, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	acc, sc, err := s.accessor(ctx)
	if err != nil {
		return err
	}
	row, err := acc.FindByID(ctx, id)
	if err != nil || !visible(row, sc) {
		return domain.ErrNotFound
	}
	if err := acc.Delete(ctx, id); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *service) Exists(ctx context.Context, kind string, id snowflake.ID) (bool, error) {
	acc, sc, err := s.accessor(ctx)
	if err != nil {
		return false, err
	}
	row, err := acc.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return row.Kind == kind && visible(row, sc), nil
}
