// Package repository persists invitations with gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/invitation/domain"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed invitation repository.
func NewRepository(conn *gorm.DB) domain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, inv *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindByToken(ctx context.Context, tenantID snowflake.ID, token string) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND token = ?", tenantID, token).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// MarkAccepted performs the accept as a single guarded update so that two
// concurrent accepts of the same token cannot both succeed.
func (r *repository) MarkAccepted(ctx context.Context, tenantID snowflake.ID, token string, userID snowflake.ID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Invitation{}).
		Where("tenant_id = ? AND token = ? AND accepted = ? AND expires_at > ?", tenantID, token, false, now).
		Updates(map[string]any{
			"accepted":    true,
			"accepted_by": userID,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListPending(ctx context.Context, tenantID snowflake.ID) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND accepted = ?", tenantID, false).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Invitation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
