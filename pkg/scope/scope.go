// Package scope is the only way to reach tenant-scoped tables. An Accessor is
// pre-bound to a tenant (and optionally a project) at construction time; every
// read merges the binding into the query and every write stamps or re-checks
// it, so a handler cannot forget the filter.
package scope

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/db/option"
	"gorm.io/gorm"
)

var (
	// ErrMissingTenant is returned when an accessor is built without a tenant.
	ErrMissingTenant = errors.New("scope: tenant id is required")
	// ErrNotFound is returned when a row is absent under the bound scope.
	ErrNotFound = errors.New("scope: record not found")
	// ErrScopeMismatch is returned when a write targets a different scope
	// than the accessor is bound to.
	ErrScopeMismatch = errors.New("scope: record does not match bound scope")
)

// Scoped is implemented by every tenant-scoped model, usually by embedding
// TenantScoped.
type Scoped interface {
	SetTenant(snowflake.ID)
	Tenant() snowflake.ID
}

// ProjectBound is additionally implemented by project-scoped models, usually
// by embedding ProjectScoped.
type ProjectBound interface {
	SetProject(*snowflake.ID)
	Project() *snowflake.ID
}

// TenantScoped is the embeddable tenant binding column.
type TenantScoped struct {
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
}

func (s *TenantScoped) SetTenant(id snowflake.ID) { s.TenantID = id }
func (s *TenantScoped) Tenant() snowflake.ID      { return s.TenantID }

// ProjectScoped is the embeddable project binding column.
type ProjectScoped struct {
	ProjectID *snowflake.ID `gorm:"column:project_id;index" json:"project_id,omitempty"`
}

func (s *ProjectScoped) SetProject(id *snowflake.ID) { s.ProjectID = id }
func (s *ProjectScoped) Project() *snowflake.ID      { return s.ProjectID }

// Accessor executes queries for T with the bound scope merged in.
type Accessor[T any, P interface {
	*T
	Scoped
}] struct {
	db    *gorm.DB
	scope tenantctx.Scope
}

// NewAccessor binds db access for T to the given scope.
func NewAccessor[T any, P interface {
	*T
	Scoped
}](db *gorm.DB, sc tenantctx.Scope) (*Accessor[T, P], error) {
	if sc.TenantID == 0 {
		return nil, ErrMissingTenant
	}
	return &Accessor[T, P]{db: db, scope: sc}, nil
}

// FromContext binds db access for T to the scope resolved on the request
// context.
func FromContext[T any, P interface {
	*T
	Scoped
}](ctx context.Context, db *gorm.DB) (*Accessor[T, P], error) {
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, ErrMissingTenant
	}
	return NewAccessor[T, P](db, sc)
}

// WithTx returns an accessor running against the given transaction with the
// same binding.
func (a *Accessor[T, P]) WithTx(tx *gorm.DB) *Accessor[T, P] {
	return &Accessor[T, P]{db: tx, scope: a.scope}
}

// Scope returns the bound scope.
func (a *Accessor[T, P]) Scope() tenantctx.Scope { return a.scope }

func (a *Accessor[T, P]) projectBound() bool {
	var zero T
	_, ok := any(P(&zero)).(ProjectBound)
	return ok
}

func (a *Accessor[T, P]) scoped(stmt *gorm.DB) *gorm.DB {
	stmt = stmt.Where("tenant_id = ?", a.scope.TenantID)
	if a.scope.ProjectID != nil && a.projectBound() {
		stmt = stmt.Where("project_id = ?", *a.scope.ProjectID)
	}
	return stmt
}

func (a *Accessor[T, P]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	var result []*T
	stmt := a.scoped(a.db.WithContext(ctx).Model(new(T)).Where(query))
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	err := stmt.Find(&result).Error
	return result, err
}

func (a *Accessor[T, P]) FindOne(ctx context.Context, query *T) (*T, error) {
	var result T
	stmt := a.scoped(a.db.WithContext(ctx).Model(new(T)).Where(query))
	if err := stmt.First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (a *Accessor[T, P]) FindByID(ctx context.Context, id snowflake.ID) (*T, error) {
	var result T
	stmt := a.scoped(a.db.WithContext(ctx).Model(new(T)).Where("id = ?", id))
	if err := stmt.First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Create stamps the bound scope onto the row before insert. A row pre-stamped
// with a different tenant or project is rejected rather than silently moved.
func (a *Accessor[T, P]) Create(ctx context.Context, resource *T) error {
	entity := P(resource)
	if entity.Tenant() != 0 && entity.Tenant() != a.scope.TenantID {
		return ErrScopeMismatch
	}
	entity.SetTenant(a.scope.TenantID)

	if bound, ok := any(entity).(ProjectBound); ok && a.scope.ProjectID != nil {
		if existing := bound.Project(); existing != nil && *existing != *a.scope.ProjectID {
			return ErrScopeMismatch
		}
		bound.SetProject(a.scope.ProjectID)
	}

	return a.db.WithContext(ctx).Create(resource).Error
}

// Update applies updates to the row with the given id inside the bound scope.
// A row outside the scope behaves exactly like a missing row.
func (a *Accessor[T, P]) Update(ctx context.Context, id snowflake.ID, updates any) error {
	stmt := a.scoped(a.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)).Updates(updates)
	if stmt.Error != nil {
		return stmt.Error
	}
	if stmt.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id inside the bound scope.
func (a *Accessor[T, P]) Delete(ctx context.Context, id snowflake.ID) error {
	var dummy T
	stmt := a.scoped(a.db.WithContext(ctx).Where("id = ?", id)).Delete(&dummy)
	if stmt.Error != nil {
		return stmt.Error
	}
	if stmt.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *Accessor[T, P]) Count(ctx context.Context, query *T) (int64, error) {
	var count int64
	stmt := a.scoped(a.db.WithContext(ctx).Model(new(T)).Where(query))
	err := stmt.Count(&count).Error
	return count, err
}

// Exists reports whether a row matching query exists inside the bound scope.
// Used for natural-key duplicate checks before create.
func (a *Accessor[T, P]) Exists(ctx context.Context, query *T) (bool, error) {
	count, err := a.Count(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
