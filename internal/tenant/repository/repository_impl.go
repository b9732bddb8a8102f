// Package repository persists tenants and memberships with gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/pkg/db"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed tenant repository.
func NewRepository(conn *gorm.DB) domain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateTenant(ctx context.Context, t *domain.Tenant) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (r *repository) FindTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindTenantByID(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) UpdateTenant(ctx context.Context, t *domain.Tenant) error {
	t.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Tenant{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"metadata":    t.Metadata,
			"updated_at":  t.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) AddMember(ctx context.Context, m *domain.Membership) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *repository) FindMembership(ctx context.Context, tenantID, userID snowflake.ID) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoMembership
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListMemberships(ctx context.Context, userID snowflake.ID) ([]domain.TenantListItem, error) {
	var items []domain.TenantListItem
	err := r.db.WithContext(ctx).
		Table("tenants").
		Select("tenants.*, memberships.role AS role").
		Joins("JOIN memberships ON memberships.tenant_id = tenants.id").
		Where("memberships.user_id = ?", userID).
		Order("tenants.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListMembers(ctx context.Context, tenantID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.*, users.email AS email, users.name AS name").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.tenant_id = ?", tenantID).
		Order("memberships.created_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) CountByRole(ctx context.Context, tenantID snowflake.ID, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Membership{}).
		Where("tenant_id = ? AND role = ?", tenantID, role).
		Count(&n).Error
	return n, err
}

func (r *repository) UpdateMembership(ctx context.Context, m *domain.Membership) error {
	m.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Membership{}).
		Where("tenant_id = ? AND user_id = ?", m.TenantID, m.UserID).
		Updates(map[string]any{
			"role":       m.Role,
			"updated_at": m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *repository) DeleteMembership(ctx context.Context, tenantID, userID snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Delete(&domain.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
