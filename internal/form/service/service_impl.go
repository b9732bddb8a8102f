// Package service implements CRUD over form entries for every type in the
// registry.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/db/option"
	"github.com/opensigas/sigas/pkg/db/pagination"
	"github.com/opensigas/sigas/pkg/scope"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	DB       *gorm.DB
	GenID    *snowflake.Node
	Registry *domain.Registry
	Lookups  domain.LookupResolver
}

type service struct {
	log      *zap.Logger
	db       *gorm.DB
	genID    *snowflake.Node
	registry *domain.Registry
	lookups  domain.LookupResolver
}

// New constructs the form service.
func New(p Params) domain.Service {
	return &service{
		log:      p.Log.Named("form.service"),
		db:       p.DB,
		genID:    p.GenID,
		registry: p.Registry,
		lookups:  p.Lookups,
	}
}

func (s *service) Types(context.Context) []domain.FormType {
	return s.registry.List()
}

// accessor binds entry access to the request scope, dropping the project
// binding for tenant-level form types so their rows stay reachable from any
// project context.
func (s *service) accessor(ctx context.Context, ft domain.FormType) (*scope.Accessor[domain.Entry, *domain.Entry], error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}
	if ft.ProjectScoped {
		if sc.ProjectID == nil {
			return nil, domain.ErrMissingProject
		}
	} else {
		sc.ProjectID = nil
	}
	return scope.NewAccessor[domain.Entry](s.db, sc)
}

func (s *service) formType(code string) (domain.FormType, error) {
	ft, ok := s.registry.Get(strings.ToLower(code))
	if !ok {
		return domain.FormType{}, domain.ErrUnknownType
	}
	return ft, nil
}

func parseLookupID(value any) (snowflake.ID, bool) {
	switch v := value.(type) {
	case string:
		id, err := snowflake.ParseString(v)
		if err != nil {
			return 0, false
		}
		return id, true
	case float64:
		return snowflake.ID(int64(v)), true
	case int64:
		return snowflake.ID(v), true
	}
	return 0, false
}

// checkLookups verifies every lookup reference in the payload points at a
// row the caller's tenant can see.
func (s *service) checkLookups(ctx context.Context, ft domain.FormType, payload map[string]any) error {
	errs := &domain.ValidationErrors{}
	for _, f := range ft.Fields {
		if f.Kind != domain.KindLookup {
			continue
		}
		value, present := payload[f.Name]
		if !present || value == nil {
			continue
		}
		id, ok := parseLookupID(value)
		if !ok {
			errs.Fields = append(errs.Fields, domain.FieldError{
				Field: f.Name, Message: "expected a lookup reference id",
			})
			continue
		}
		exists, err := s.lookups.Exists(ctx, f.LookupKind, id)
		if err != nil {
			return err
		}
		if !exists {
			errs.Fields = append(errs.Fields, domain.FieldError{
				Field:   f.Name,
				Message: fmt.Sprintf("no %s with that id", f.LookupKind),
			})
		}
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

func (s *service) Create(ctx context.Context, typeCode string, req domain.CreateEntryRequest, createdBy snowflake.ID) (*domain.Entry, error) {
	ft, err := s.formType(typeCode)
	if err != nil {
		return nil, err
	}
	entries, err := s.accessor(ctx, ft)
	if err != nil {
		return nil, err
	}

	if err := ft.Validate(req.Payload); err != nil {
		return nil, err
	}
	if err := s.checkLookups(ctx, ft, req.Payload); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:        s.genID.Generate(),
		TypeCode:  ft.Code,
		Status:    strings.TrimSpace(req.Status),
		Payload:   datatypes.JSONMap(req.Payload),
		CreatedBy: createdBy,
	}
	if err := entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Info("form entry created",
		zap.String("type", ft.Code),
		zap.String("entry_id", entry.ID.String()),
		zap.String("tenant_id", entry.TenantID.String()),
	)
	return entry, nil
}

func (s *service) List(ctx context.Context, typeCode string, pg pagination.Pagination) ([]*domain.Entry, *pagination.PageInfo, error) {
	ft, err := s.formType(typeCode)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.accessor(ctx, ft)
	if err != nil {
		return nil, nil, err
	}

	limit := pg.Limit()
	opts := []option.QueryOption{
		option.WithSortBy("id DESC"),
		option.WithLimit(limit + 1),
	}
	if after, ok := pg.After(); ok {
		opts = append(opts, option.WithCondition("id < ?", after))
	}
	rows, err := entries.Find(ctx, &domain.Entry{TypeCode: ft.Code}, opts...)
	if err != nil {
		return nil, nil, err
	}
	rows, info := pagination.Page(rows, limit, func(e *domain.Entry) snowflake.ID { return e.ID })
	return rows, info, nil
}

func (s *service) Get(ctx context.Context, typeCode string, id snowflake.ID) (*domain.Entry, error) {
	ft, err := s.formType(typeCode)
	if err != nil {
		return nil, err
	}
	entries, err := s.accessor(ctx, ft)
	if err != nil {
		return nil, err
	}
	entry, err := entries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if entry.TypeCode != ft.Code {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (s *service) Update(ctx context.Context, typeCode string, id snowflake.ID, req domain.UpdateEntryRequest) (*domain.Entry, error) {
	ft, err := s.formType(typeCode)
	if err != nil {
		return nil, err
	}
	entries, err := s.accessor(ctx, ft)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, typeCode, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = strings.TrimSpace(*req.Status)
	}
	if req.Payload != nil {
		// The payload is replaced wholesale, so it is validated wholesale.
		if err := ft.Validate(req.Payload); err != nil {
			return nil, err
		}
		if err := s.checkLookups(ctx, ft, req.Payload); err != nil {
			return nil, err
		}
		updates["payload"] = datatypes.JSONMap(req.Payload)
	}

	if len(updates) > 0 {
		if err := entries.Update(ctx, id, updates); err != nil {
			if errors.Is(err, scope.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
	}
	return s.Get(ctx, typeCode, id)
}

func (s *service) Delete(ctx context.Context, typeCode string, id snowflake.ID) error {
	ft, err := s.formType(typeCode)
	if err != nil {
		return err
	}
	entries, err := s.accessor(ctx, ft)
	if err != nil {
		return err
	}
	if _, err := s.Get(ctx, typeCode, id); err != nil {
		return err
	}
	if err := entries.Delete(ctx, id); err != nil {
		if errors.Is(err, scope.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
