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

	"github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/db/pagination"
)

// stubResolver accepts exactly the ids it was seeded with, keyed by kind.
type stubResolver struct {
	known map[string][]snowflake.ID
}

func (r *stubResolver) Exists(_ context.Context, kind string, id snowflake.ID) (bool, error) {
	for _, known := range r.known[kind] {
		if known == id {
			return true, nil
		}
	}
	return false, nil
}

type fixture struct {
	svc      domain.Service
	resolver *stubResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Entry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	resolver := &stubResolver{known: map[string][]snowflake.ID{}}
	svc := New(Params{
		Log:      zap.NewNop(),
		DB:       db,
		GenID:    node,
		Registry: domain.NewRegistry(domain.Catalog()),
		Lookups:  resolver,
	})
	return &fixture{svc: svc, resolver: resolver}
}

func projectCtx(tenantID, projectID snowflake.ID) context.Context {
	return tenantctx.WithScope(context.Background(), tenantctx.Scope{
		TenantID: tenantID, ProjectID: &projectID,
	})
}

func tenantCtx(tenantID snowflake.ID) context.Context {
	return tenantctx.WithScope(context.Background(), tenantctx.Scope{TenantID: tenantID})
}

func validIncidente() domain.CreateEntryRequest {
	return domain.CreateEntryRequest{
		Status: "ABERTO",
		Payload: map[string]any{
			"data_ocorrencia": "2026-08-14",
			"descricao":       "Derrame junto ao armazem",
			"tipo_incidente":  "AMBIENTAL",
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)

	entry, err := f.svc.Create(ctx, "incidente", validIncidente(), 99)
	require.NoError(t, err)
	assert.Equal(t, "incidente", entry.TypeCode)
	assert.Equal(t, snowflake.ID(99), entry.CreatedBy)

	got, err := f.svc.Get(ctx, "incidente", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Derrame junto ao armazem", got.Payload["descricao"])

	// The same id under a different type code does not resolve.
	_, err = f.svc.Get(ctx, "derrame", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(projectCtx(1, 10), "formulario_misterioso", validIncidente(), 99)
	assert.ErrorIs(t, err, domain.ErrUnknownType)
}

func TestProjectScopedTypeNeedsProject(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(tenantCtx(1), "incidente", validIncidente(), 99)
	assert.ErrorIs(t, err, domain.ErrMissingProject)
}

func TestTenantLevelTypeIgnoresProjectBinding(t *testing.T) {
	f := newFixture(t)

	req := domain.CreateEntryRequest{Payload: map[string]any{
		"numero":        "LA-2026/014",
		"data_emissao":  "2026-01-10",
		"data_validade": "2028-01-10",
	}}
	entry, err := f.svc.Create(tenantCtx(1), "licenca_ambiental", req, 99)
	require.NoError(t, err)

	// Visible from inside any of the tenant's projects.
	got, err := f.svc.Get(projectCtx(1, 10), "licenca_ambiental", entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	// But never from another tenant.
	_, err = f.svc.Get(tenantCtx(2), "licenca_ambiental", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayloadValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)

	_, err := f.svc.Create(ctx, "incidente", domain.CreateEntryRequest{Payload: map[string]any{
		"descricao": "sem data nem tipo",
		"extra":     true,
	}}, 99)
	var verrs *domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]bool, len(verrs.Fields))
	for _, fe := range verrs.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["data_ocorrencia"])
	assert.True(t, fields["tipo_incidente"])
	assert.True(t, fields["extra"])
}

func TestLookupReferencesAreChecked(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)
	f.resolver.known["factor_ambiental"] = []snowflake.ID{500}

	req := validIncidente()
	req.Payload["factor_ambiental_id"] = "500"
	_, err := f.svc.Create(ctx, "incidente", req, 99)
	require.NoError(t, err)

	req = validIncidente()
	req.Payload["factor_ambiental_id"] = "501"
	_, err = f.svc.Create(ctx, "incidente", req, 99)
	var verrs *domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs.Fields, 1)
	assert.Equal(t, "factor_ambiental_id", verrs.Fields[0].Field)
}

func TestListIsScopedToProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(projectCtx(1, 10), "incidente", validIncidente(), 99)
	require.NoError(t, err)
	_, err = f.svc.Create(projectCtx(1, 10), "incidente", validIncidente(), 99)
	require.NoError(t, err)
	_, err = f.svc.Create(projectCtx(1, 11), "incidente", validIncidente(), 99)
	require.NoError(t, err)

	rows, _, err := f.svc.List(projectCtx(1, 10), "incidente", pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, err = f.svc.List(projectCtx(1, 11), "incidente", pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(ctx, "incidente", validIncidente(), 99)
		require.NoError(t, err)
	}

	first, info, err := f.svc.List(ctx, "incidente", pagination.Pagination{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.True(t, info.HasMore)
	require.NotEmpty(t, info.NextPageToken)

	second, info, err := f.svc.List(ctx, "incidente", pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.True(t, info.HasMore)

	last, info, err := f.svc.List(ctx, "incidente", pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.False(t, info.HasMore)

	// No row appears on two pages.
	seen := map[snowflake.ID]bool{}
	for _, e := range append(append(first, second...), last...) {
		assert.False(t, seen[e.ID], "entry %s repeated", e.ID)
		seen[e.ID] = true
	}
}

func TestUpdateReplacesPayload(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)

	entry, err := f.svc.Create(ctx, "incidente", validIncidente(), 99)
	require.NoError(t, err)

	status := "FECHADO"
	updated, err := f.svc.Update(ctx, "incidente", entry.ID, domain.UpdateEntryRequest{
		Status: &status,
		Payload: map[string]any{
			"data_ocorrencia": "2026-08-15",
			"descricao":       "Actualizado apos verificacao",
			"tipo_incidente":  "AMBIENTAL",
			"gravidade":       "BAIXA",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "FECHADO", updated.Status)
	assert.Equal(t, "Actualizado apos verificacao", updated.Payload["descricao"])
	// Replaced wholesale: a new payload without the old optional keys drops them.
	_, hasLocal := updated.Payload["local"]
	assert.False(t, hasLocal)

	// An invalid replacement payload is rejected as a whole.
	_, err = f.svc.Update(ctx, "incidente", entry.ID, domain.UpdateEntryRequest{
		Payload: map[string]any{"descricao": "falta o resto"},
	})
	var verrs *domain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := projectCtx(1, 10)

	entry, err := f.svc.Create(ctx, "incidente", validIncidente(), 99)
	require.NoError(t, err)

	// Another project cannot delete it.
	err = f.svc.Delete(projectCtx(1, 11), "incidente", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, "incidente", entry.ID))
	_, err = f.svc.Get(ctx, "incidente", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
