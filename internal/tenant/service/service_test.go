package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	identitydomain "github.com/opensigas/sigas/internal/identity/domain"
	"github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/internal/tenant/repository"
	"github.com/opensigas/sigas/internal/tenantctx"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Tenant{}, &domain.Membership{}, &identitydomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		Log:   zap.NewNop(),
		DB:    db,
		GenID: node,
		Repo:  repository.NewRepository(db),
	})
	return svc, db
}

func scopedCtx(tenantID snowflake.ID) context.Context {
	return tenantctx.WithScope(context.Background(), tenantctx.Scope{TenantID: tenantID})
}

func TestCreateTenantMakesCreatorAdmin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	userID := snowflake.ID(100)

	tenant, err := svc.Create(ctx, userID, domain.CreateTenantRequest{Name: "Projecto Gás Norte"})
	require.NoError(t, err)
	assert.Equal(t, "projecto-gas-norte", tenant.Slug)

	var m domain.Membership
	require.NoError(t, db.Where("tenant_id = ? AND user_id = ?", tenant.ID, userID).First(&m).Error)
	assert.Equal(t, domain.RoleAdmin, m.Role)
}

func TestCreateTenantDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 100, domain.CreateTenantRequest{Name: "Mesma Obra"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 101, domain.CreateTenantRequest{Name: "Mesma Obra"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestResolveMembership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, 100, domain.CreateTenantRequest{Name: "Resolver"})
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, tenant.Slug, 100)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, res.Tenant.ID)
	assert.Equal(t, domain.RoleAdmin, res.Membership.Role)

	_, err = svc.Resolve(ctx, tenant.Slug, 999)
	assert.ErrorIs(t, err, domain.ErrNoMembership)

	_, err = svc.Resolve(ctx, "nope", 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteAfterLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	decision, err := svc.RouteAfterLogin(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteCreate, decision.Action)

	tenant, err := svc.Create(ctx, 500, domain.CreateTenantRequest{Name: "Unica"})
	require.NoError(t, err)

	decision, err = svc.RouteAfterLogin(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteDashboard, decision.Action)
	assert.Equal(t, tenant.Slug, decision.Slug)

	_, err = svc.Create(ctx, 500, domain.CreateTenantRequest{Name: "Segunda"})
	require.NoError(t, err)

	decision, err = svc.RouteAfterLogin(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteChoose, decision.Action)
	assert.Empty(t, decision.Slug)
}

func TestChangeRoleLastAdmin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, 100, domain.CreateTenantRequest{Name: "Guardada"})
	require.NoError(t, err)
	sctx := scopedCtx(tenant.ID)

	// The sole admin cannot demote themselves.
	_, err = svc.ChangeRole(sctx, 100, 100, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)

	// With a second admin the demotion goes through.
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Membership{
		ID: node.Generate(), TenantID: tenant.ID, UserID: 101, Role: domain.RoleAdmin,
	}).Error)

	m, err := svc.ChangeRole(sctx, 101, 100, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, m.Role)

	// Which makes user 101 the last admin again.
	_, err = svc.ChangeRole(sctx, 101, 101, domain.RoleManager)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)
}

func TestRemoveMemberLastAdmin(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, 100, domain.CreateTenantRequest{Name: "Remocoes"})
	require.NoError(t, err)
	sctx := scopedCtx(tenant.ID)

	err = svc.RemoveMember(sctx, 100, 100)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.Membership{
		ID: node.Generate(), TenantID: tenant.ID, UserID: 102, Role: domain.RoleUser,
	}).Error)

	require.NoError(t, svc.RemoveMember(sctx, 100, 102))

	err = svc.RemoveMember(sctx, 100, 102)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestChangeRoleInvalidRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, 100, domain.CreateTenantRequest{Name: "Papeis"})
	require.NoError(t, err)

	_, err = svc.ChangeRole(scopedCtx(tenant.ID), 100, 100, "SUPERUSER")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
