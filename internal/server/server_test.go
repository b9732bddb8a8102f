package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/opensigas/sigas/internal/authorization"
	"github.com/opensigas/sigas/internal/config"
	formdomain "github.com/opensigas/sigas/internal/form/domain"
	formservice "github.com/opensigas/sigas/internal/form/service"
	identitydomain "github.com/opensigas/sigas/internal/identity/domain"
	identityrepo "github.com/opensigas/sigas/internal/identity/repository"
	identityservice "github.com/opensigas/sigas/internal/identity/service"
	invitationdomain "github.com/opensigas/sigas/internal/invitation/domain"
	invitationrepo "github.com/opensigas/sigas/internal/invitation/repository"
	invitationservice "github.com/opensigas/sigas/internal/invitation/service"
	lookupdomain "github.com/opensigas/sigas/internal/lookup/domain"
	lookupservice "github.com/opensigas/sigas/internal/lookup/service"
	projectdomain "github.com/opensigas/sigas/internal/project/domain"
	projectservice "github.com/opensigas/sigas/internal/project/service"
	storageservice "github.com/opensigas/sigas/internal/storage/service"
	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
	tenantrepo "github.com/opensigas/sigas/internal/tenant/repository"
	tenantservice "github.com/opensigas/sigas/internal/tenant/service"
)

const (
	testJWTSecret     = "test-jwt-secret"
	testWebhookSecret = "test-webhook-secret"
)

type nullUploader struct{}

func (nullUploader) Upload(_ context.Context, _ *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	return &manager.UploadOutput{}, nil
}

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	genID  *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&identitydomain.User{},
		&tenantdomain.Tenant{},
		&tenantdomain.Membership{},
		&projectdomain.Project{},
		&projectdomain.ProjectMember{},
		&invitationdomain.Invitation{},
		&lookupdomain.Lookup{},
		&formdomain.Entry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()
	cfg := config.Config{
		IdentityJWTSecret:     testJWTSecret,
		IdentityWebhookSecret: testWebhookSecret,
		Storage: config.StorageConfig{
			Bucket: "sigas-test",
			Region: "eu-west-1",
		},
	}

	authzSvc, err := authorization.NewService(authorization.Params{Log: log})
	if err != nil {
		t.Fatalf("authorization: %v", err)
	}
	identitySvc := identityservice.New(identityservice.Params{
		Cfg: cfg, Log: log, GenID: node, Repo: identityrepo.NewRepository(db),
	})
	tRepo := tenantrepo.NewRepository(db)
	tenantSvc := tenantservice.New(tenantservice.Params{Log: log, DB: db, GenID: node, Repo: tRepo})
	projectSvc := projectservice.New(projectservice.Params{Log: log, DB: db, GenID: node, TenantRepo: tRepo})
	invitationSvc := invitationservice.New(invitationservice.Params{
		Log: log, DB: db, GenID: node,
		Repo: invitationrepo.NewRepository(db), TenantRepo: tRepo,
	})
	lookupSvc := lookupservice.New(lookupservice.Params{Log: log, DB: db, GenID: node})
	formSvc := formservice.New(formservice.Params{
		Log: log, DB: db, GenID: node,
		Registry: formdomain.NewRegistry(formdomain.Catalog()),
		Lookups:  lookupSvc,
	})
	storageSvc := storageservice.New(storageservice.Params{Log: log, Cfg: cfg, Uploader: nullUploader{}})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	NewServer(ServerParams{
		Gin:           engine,
		Cfg:           cfg,
		DB:            db,
		GenID:         node,
		AuthzSvc:      authzSvc,
		IdentitySvc:   identitySvc,
		TenantSvc:     tenantSvc,
		ProjectSvc:    projectSvc,
		InvitationSvc: invitationSvc,
		FormSvc:       formSvc,
		LookupSvc:     lookupSvc,
		StorageSvc:    storageSvc,
	})

	return &testEnv{engine: engine, db: db, genID: node}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.engine.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

func signToken(t *testing.T, subject, email, name string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func webhookSignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// syncUser mirrors a provider user through the webhook and returns a signed
// bearer token for it.
func (e *testEnv) syncUser(t *testing.T, subject, email, name string) string {
	t.Helper()
	body := []byte(fmt.Sprintf(
		`{"type":"user.created","user":{"subject":%q,"email":%q,"name":%q}}`,
		subject, email, name,
	))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, webhookSignature(body))
	resp := httptest.NewRecorder()
	e.engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("sync user %s: status %d body %s", subject, resp.Code, resp.Body.String())
	}
	return signToken(t, subject, email, name)
}

// createTenant creates a tenant as the given user and returns its slug.
func (e *testEnv) createTenant(t *testing.T, token, name string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/tenants", token, map[string]any{"name": name})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create tenant: status %d body %s", resp.Code, resp.Body.String())
	}
	slug, _ := decodeJSON(t, resp)["slug"].(string)
	if slug == "" {
		t.Fatalf("create tenant: no slug in %s", resp.Body.String())
	}
	return slug
}

// invite runs the invite-accept flow for an already-synced user.
func (e *testEnv) invite(t *testing.T, adminToken, slug, email, role, inviteeToken string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations", adminToken,
		map[string]any{"email": email, "role": role})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create invitation: status %d body %s", resp.Code, resp.Body.String())
	}
	token, _ := decodeJSON(t, resp)["token"].(string)
	if token == "" {
		t.Fatalf("create invitation: no token in %s", resp.Body.String())
	}
	resp = e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations/"+token+"/accept", inviteeToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("accept invitation: status %d body %s", resp.Code, resp.Body.String())
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	e := newTestEnv(t)
	body := []byte(`{"type":"user.created","user":{"subject":"sub-1","email":"a@example.com"}}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	e.engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("missing signature: expected 401, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(body))
	req.Header.Set(signatureHeader, "sha256=deadbeef")
	resp = httptest.NewRecorder()
	e.engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: expected 401, got %d", resp.Code)
	}

	// A prefixed valid signature is accepted.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(body))
	req.Header.Set(signatureHeader, "sha256="+webhookSignature(body))
	resp = httptest.NewRecorder()
	e.engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("valid signature: expected 200, got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/api/v1/me/tenants", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.Code)
	}

	resp = e.do(t, http.MethodGet, "/api/v1/me/tenants", "not-a-jwt", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", resp.Code)
	}

	// A well-signed token for a subject that was never mirrored is rejected.
	resp = e.do(t, http.MethodGet, "/api/v1/me/tenants", signToken(t, "ghost", "g@example.com", "Ghost"), nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unknown subject: expected 401, got %d", resp.Code)
	}
}

func TestTenantLifecycle(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	bob := e.syncUser(t, "sub-bob", "bob@example.com", "Bob")

	slug := e.createTenant(t, alice, "Projecto Gás Norte")
	if slug != "projecto-gas-norte" {
		t.Fatalf("unexpected slug %q", slug)
	}

	// The creator is ADMIN of the new tenant.
	resp := e.do(t, http.MethodGet, "/api/v1/tenants/"+slug, alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get tenant: status %d body %s", resp.Code, resp.Body.String())
	}
	if role := decodeJSON(t, resp)["role"]; role != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %v", role)
	}

	resp = e.do(t, http.MethodGet, "/api/v1/me/tenants", alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list my tenants: status %d", resp.Code)
	}

	// A non-member cannot enter the tenant.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slug, bob, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-member: expected 403, got %d body %s", resp.Code, resp.Body.String())
	}
	// A tenant that does not exist is a 404.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/nao-existe", alice, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing tenant: expected 404, got %d", resp.Code)
	}
	// Duplicate name collides on the slug.
	resp = e.do(t, http.MethodPost, "/api/v1/tenants", bob, map[string]any{"name": "Projecto Gás Norte"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate slug: expected 409, got %d", resp.Code)
	}
}

func TestInvitationFlowOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	bob := e.syncUser(t, "sub-bob", "bob@example.com", "Bob")
	slug := e.createTenant(t, alice, "Obras do Corredor")

	resp := e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations", alice,
		map[string]any{"email": "bob@example.com", "role": "MANAGER"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create invitation: status %d body %s", resp.Code, resp.Body.String())
	}
	payload := decodeJSON(t, resp)
	token, _ := payload["token"].(string)
	if len(token) != 64 {
		t.Fatalf("expected a 64-char token, got %q", token)
	}
	// The invitation object itself never carries the token.
	if inv, ok := payload["invitation"].(map[string]any); !ok {
		t.Fatalf("no invitation in %s", resp.Body.String())
	} else if _, leaked := inv["token"]; leaked {
		t.Fatal("token leaked on the invitation object")
	}

	// The landing preview is public.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slug+"/invitations/"+token, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("inspect: status %d body %s", resp.Code, resp.Body.String())
	}

	resp = e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations/"+token+"/accept", bob, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", resp.Code, resp.Body.String())
	}
	// The token is consumed exactly once.
	resp = e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations/"+token+"/accept", bob, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("second accept: expected 409, got %d body %s", resp.Code, resp.Body.String())
	}

	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slug, bob, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("member after accept: status %d", resp.Code)
	}
	if role := decodeJSON(t, resp)["role"]; role != "MANAGER" {
		t.Fatalf("expected role MANAGER, got %v", role)
	}

	// A made-up token is a 404.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slug+"/invitations/0000000000000000000000000000000000000000000000000000000000000000", "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown token: expected 404, got %d", resp.Code)
	}
}

func TestExpiredInvitationLooksMissing(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	bob := e.syncUser(t, "sub-bob", "bob@example.com", "Bob")
	slug := e.createTenant(t, alice, "Linha de Transporte")

	resp := e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations", alice,
		map[string]any{"email": "bob@example.com", "role": "USER"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create invitation: status %d body %s", resp.Code, resp.Body.String())
	}
	token, _ := decodeJSON(t, resp)["token"].(string)

	past := time.Now().UTC().Add(-time.Hour)
	if err := e.db.Model(&invitationdomain.Invitation{}).
		Where("token = ?", token).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire invitation: %v", err)
	}

	// Once past its deadline the token is indistinguishable from a
	// missing one.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slug+"/invitations/"+token, "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("inspect expired: expected 404, got %d body %s", resp.Code, resp.Body.String())
	}
	resp = e.do(t, http.MethodPost, "/api/v1/tenants/"+slug+"/invitations/"+token+"/accept", bob, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("accept expired: expected 404, got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestProjectAccessOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	bob := e.syncUser(t, "sub-bob", "bob@example.com", "Bob")
	carol := e.syncUser(t, "sub-carol", "carol@example.com", "Carol")
	slug := e.createTenant(t, alice, "Barragem de Chicamba")
	e.invite(t, alice, slug, "bob@example.com", "MANAGER", bob)
	e.invite(t, alice, slug, "carol@example.com", "USER", carol)

	base := "/api/v1/tenants/" + slug

	// USER cannot create projects; MANAGER can.
	resp := e.do(t, http.MethodPost, base+"/projects", carol, map[string]any{"name": "Fase 1"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("user create project: expected 403, got %d", resp.Code)
	}
	resp = e.do(t, http.MethodPost, base+"/projects", bob, map[string]any{"name": "Fase 1"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("manager create project: status %d body %s", resp.Code, resp.Body.String())
	}
	projectID, _ := decodeJSON(t, resp)["id"].(string)
	if projectID == "" {
		t.Fatalf("no project id in %s", resp.Body.String())
	}

	// Without a grant the USER sees an empty list and a 403 on direct access.
	resp = e.do(t, http.MethodGet, base+"/projects", carol, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("user list projects: status %d", resp.Code)
	}
	if data, _ := decodeJSON(t, resp)["data"].([]any); len(data) != 0 {
		t.Fatalf("expected no visible projects, got %d", len(data))
	}
	resp = e.do(t, http.MethodGet, base+"/projects/"+projectID, carol, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("ungranted get: expected 403, got %d", resp.Code)
	}

	// Resolve carol's user id from the member list for the grant call.
	resp = e.do(t, http.MethodGet, base+"/members", alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list members: status %d body %s", resp.Code, resp.Body.String())
	}
	var carolID string
	if data, _ := decodeJSON(t, resp)["data"].([]any); data != nil {
		for _, item := range data {
			m := item.(map[string]any)
			if m["email"] == "carol@example.com" {
				carolID, _ = m["user_id"].(string)
			}
		}
	}
	if carolID == "" {
		t.Fatal("carol not found in member list")
	}

	resp = e.do(t, http.MethodPost, base+"/projects/"+projectID+"/members", bob,
		map[string]any{"user_id": carolID})
	if resp.Code != http.StatusCreated {
		t.Fatalf("grant: status %d body %s", resp.Code, resp.Body.String())
	}
	resp = e.do(t, http.MethodGet, base+"/projects/"+projectID, carol, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("granted get: status %d body %s", resp.Code, resp.Body.String())
	}

	// Deleting a project is reserved for ADMIN.
	resp = e.do(t, http.MethodDelete, base+"/projects/"+projectID, bob, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("manager delete: expected 403, got %d", resp.Code)
	}
	resp = e.do(t, http.MethodDelete, base+"/projects/"+projectID, alice, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("admin delete: status %d body %s", resp.Code, resp.Body.String())
	}
}

func TestCrossTenantProjectIsNotFound(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	eve := e.syncUser(t, "sub-eve", "eve@example.com", "Eve")
	slugA := e.createTenant(t, alice, "Tenant Alfa")
	slugB := e.createTenant(t, eve, "Tenant Bravo")

	resp := e.do(t, http.MethodPost, "/api/v1/tenants/"+slugA+"/projects", alice, map[string]any{"name": "Secreto"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create project: status %d", resp.Code)
	}
	projectID, _ := decodeJSON(t, resp)["id"].(string)

	// Reaching the foreign project through eve's own tenant yields the same
	// 404 a missing id would.
	resp = e.do(t, http.MethodGet, "/api/v1/tenants/"+slugB+"/projects/"+projectID, eve, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant get: expected 404, got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestFormEntriesOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	slug := e.createTenant(t, alice, "Estrada Nacional Seis")
	base := "/api/v1/tenants/" + slug

	resp := e.do(t, http.MethodPost, base+"/projects", alice, map[string]any{"name": "Troço Norte"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create project: status %d", resp.Code)
	}
	projectID, _ := decodeJSON(t, resp)["id"].(string)
	projectForms := base + "/projects/" + projectID + "/forms"

	// A project-scoped type cannot be filed at tenant level.
	valid := map[string]any{"payload": map[string]any{
		"data_ocorrencia": "2026-08-14",
		"descricao":       "Derrame de oleo hidraulico",
		"tipo_incidente":  "AMBIENTAL",
	}}
	resp = e.do(t, http.MethodPost, base+"/forms/incidente", alice, valid)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("tenant-level incidente: expected 400, got %d body %s", resp.Code, resp.Body.String())
	}

	resp = e.do(t, http.MethodPost, projectForms+"/incidente", alice, valid)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create entry: status %d body %s", resp.Code, resp.Body.String())
	}
	entryID, _ := decodeJSON(t, resp)["id"].(string)

	// Field errors come back as a 400 with per-field detail.
	resp = e.do(t, http.MethodPost, projectForms+"/incidente", alice,
		map[string]any{"payload": map[string]any{"descricao": "incompleto", "campo_estranho": 1}})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("invalid payload: expected 400, got %d", resp.Code)
	}
	if errPayload, ok := decodeJSON(t, resp)["error"].(map[string]any); !ok {
		t.Fatalf("no error payload in %s", resp.Body.String())
	} else if fields, _ := errPayload["errors"].([]any); len(fields) < 2 {
		t.Fatalf("expected field errors, got %s", resp.Body.String())
	}

	// Unknown types are 404s.
	resp = e.do(t, http.MethodPost, projectForms+"/formulario_misterioso", alice, valid)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown type: expected 404, got %d", resp.Code)
	}

	resp = e.do(t, http.MethodGet, projectForms+"/incidente/"+entryID, alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("get entry: status %d", resp.Code)
	}

	// Tenant-level types work without a project and are visible from one.
	resp = e.do(t, http.MethodPost, base+"/forms/licenca_ambiental", alice,
		map[string]any{"payload": map[string]any{
			"numero":        "LA-2026/031",
			"data_emissao":  "2026-02-01",
			"data_validade": "2028-02-01",
		}})
	if resp.Code != http.StatusCreated {
		t.Fatalf("tenant-level entry: status %d body %s", resp.Code, resp.Body.String())
	}
	licencaID, _ := decodeJSON(t, resp)["id"].(string)
	resp = e.do(t, http.MethodGet, projectForms+"/licenca_ambiental/"+licencaID, alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("tenant-level entry under project: status %d", resp.Code)
	}

	resp = e.do(t, http.MethodGet, base+"/form-types", alice, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("form types: status %d", resp.Code)
	}
}

func TestLookupsOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	carol := e.syncUser(t, "sub-carol", "carol@example.com", "Carol")
	slug := e.createTenant(t, alice, "Porto da Beira")
	e.invite(t, alice, slug, "carol@example.com", "USER", carol)
	base := "/api/v1/tenants/" + slug

	resp := e.do(t, http.MethodPost, base+"/lookups", alice,
		map[string]any{"kind": "categoria", "name": "Ambiental"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create lookup: status %d body %s", resp.Code, resp.Body.String())
	}

	// Same natural key conflicts.
	resp = e.do(t, http.MethodPost, base+"/lookups", alice,
		map[string]any{"kind": "categoria", "name": "Ambiental"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate lookup: expected 409, got %d", resp.Code)
	}

	// USER can read but not manage.
	resp = e.do(t, http.MethodGet, base+"/lookups/categoria", carol, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("user list lookups: status %d", resp.Code)
	}
	resp = e.do(t, http.MethodPost, base+"/lookups", carol,
		map[string]any{"kind": "categoria", "name": "Social"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("user create lookup: expected 403, got %d", resp.Code)
	}

	resp = e.do(t, http.MethodGet, base+"/lookups/tipo_inexistente", alice, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind: expected 400, got %d", resp.Code)
	}
}

func TestUploadOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	alice := e.syncUser(t, "sub-alice", "alice@example.com", "Alice")
	slug := e.createTenant(t, alice, "Linha de Transporte")

	upload := func(category, filename, contentType, content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/tenants/"+slug+"/uploads/"+category, &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+alice)
		resp := httptest.NewRecorder()
		e.engine.ServeHTTP(resp, req)
		return resp
	}

	resp := upload("media", "foto obra.png", "image/png", "\x89PNG fake")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload media: status %d body %s", resp.Code, resp.Body.String())
	}
	payload := decodeJSON(t, resp)
	if payload["fileName"] != "foto obra.png" {
		t.Fatalf("unexpected fileName %v", payload["fileName"])
	}
	if url, _ := payload["url"].(string); url == "" {
		t.Fatalf("no url in %s", resp.Body.String())
	}

	resp = upload("media", "planta.pdf", "application/pdf", "%PDF fake")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("pdf as media: expected 400, got %d", resp.Code)
	}
	resp = upload("backup", "dump.bin", "application/octet-stream", "data")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: expected 400, got %d", resp.Code)
	}
}
