package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/authorization"
	"github.com/opensigas/sigas/internal/config"
	"github.com/opensigas/sigas/internal/form"
	formdomain "github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/internal/identity"
	identitydomain "github.com/opensigas/sigas/internal/identity/domain"
	"github.com/opensigas/sigas/internal/invitation"
	invitationdomain "github.com/opensigas/sigas/internal/invitation/domain"
	"github.com/opensigas/sigas/internal/lookup"
	lookupdomain "github.com/opensigas/sigas/internal/lookup/domain"
	"github.com/opensigas/sigas/internal/migration"
	"github.com/opensigas/sigas/internal/observability"
	obslogger "github.com/opensigas/sigas/internal/observability/logger"
	obsmetrics "github.com/opensigas/sigas/internal/observability/metrics"
	obstracing "github.com/opensigas/sigas/internal/observability/tracing"
	"github.com/opensigas/sigas/internal/project"
	projectdomain "github.com/opensigas/sigas/internal/project/domain"
	"github.com/opensigas/sigas/internal/storage"
	storagedomain "github.com/opensigas/sigas/internal/storage/domain"
	"github.com/opensigas/sigas/internal/tenant"
	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	identity.Module,
	tenant.Module,
	project.Module,
	invitation.Module,
	form.Module,
	lookup.Module,
	storage.Module,
	migration.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	authzSvc      authorization.Service
	identitySvc   identitydomain.Service
	tenantSvc     tenantdomain.Service
	projectSvc    projectdomain.Service
	invitationSvc invitationdomain.Service
	formSvc       formdomain.Service
	lookupSvc     lookupdomain.Service
	storageSvc    storagedomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	AuthzSvc      authorization.Service
	IdentitySvc   identitydomain.Service
	TenantSvc     tenantdomain.Service
	ProjectSvc    projectdomain.Service
	InvitationSvc invitationdomain.Service
	FormSvc       formdomain.Service
	LookupSvc     lookupdomain.Service
	StorageSvc    storagedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		authzSvc:      p.AuthzSvc,
		identitySvc:   p.IdentitySvc,
		tenantSvc:     p.TenantSvc,
		projectSvc:    p.ProjectSvc,
		invitationSvc: p.InvitationSvc,
		formSvc:       p.FormSvc,
		lookupSvc:     p.LookupSvc,
		storageSvc:    p.StorageSvc,
	}

	svc.registerWebhookRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/identity", s.IdentityWebhook)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// Invite links run outside the membership-gated tenant group; the
	// token is the proof.
	invites := api.Group("/tenants/:tenant/invitations")
	invites.GET("/:token", s.InspectInvitation)
	invites.POST("/:token/accept", s.AuthRequired(), s.AcceptInvitation)

	me := api.Group("/me", s.AuthRequired())
	me.GET("/tenants", s.ListMyTenants)
	me.GET("/route", s.RouteAfterLogin)

	api.POST("/tenants", s.AuthRequired(), s.CreateTenant)

	t := api.Group("/tenants/:tenant", s.AuthRequired(), s.TenantContext())
	t.GET("", s.GetTenant)
	t.PATCH("", s.RequireRole(authorization.ObjectTenant, authorization.ActionTenantSettingsEdit), s.UpdateTenant)

	t.GET("/members", s.RequireRole(authorization.ObjectMember, authorization.ActionMemberView), s.ListMembers)
	t.PATCH("/members/:userId/role", s.RequireRole(authorization.ObjectMember, authorization.ActionMemberRoleChange), s.ChangeMemberRole)
	t.DELETE("/members/:userId", s.RequireRole(authorization.ObjectMember, authorization.ActionMemberDelete), s.RemoveMember)

	t.GET("/invitations", s.RequireRole(authorization.ObjectInvitation, authorization.ActionInvitationView), s.ListInvitations)
	t.POST("/invitations", s.RequireRole(authorization.ObjectInvitation, authorization.ActionInvitationCreate), s.CreateInvitation)
	t.DELETE("/invitations/:id", s.RequireRole(authorization.ObjectInvitation, authorization.ActionInvitationCreate), s.RevokeInvitation)

	t.GET("/projects", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectView), s.ListProjects)
	t.POST("/projects", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectCreate), s.CreateProject)

	p := t.Group("/projects/:projectId", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectView), s.ProjectContext())
	p.GET("", s.GetProject)
	p.PATCH("", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectUpdate), s.UpdateProject)
	p.DELETE("", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectDelete), s.DeleteProject)
	p.GET("/members", s.ListProjectGrants)
	p.POST("/members", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectMemberAssign), s.GrantProjectAccess)
	p.DELETE("/members/:userId", s.RequireRole(authorization.ObjectProject, authorization.ActionProjectMemberRemove), s.RevokeProjectAccess)

	t.GET("/lookups/:kind", s.RequireRole(authorization.ObjectLookup, authorization.ActionLookupView), s.ListLookups)
	t.POST("/lookups", s.RequireRole(authorization.ObjectLookup, authorization.ActionLookupManage), s.CreateLookup)
	t.PATCH("/lookups/:kind/:id", s.RequireRole(authorization.ObjectLookup, authorization.ActionLookupManage), s.UpdateLookup)
	t.DELETE("/lookups/:kind/:id", s.RequireRole(authorization.ObjectLookup, authorization.ActionLookupManage), s.DeleteLookup)

	t.GET("/form-types", s.RequireRole(authorization.ObjectForm, authorization.ActionFormView), s.ListFormTypes)

	// Tenant-level form entries.
	s.registerFormRoutes(t.Group("/forms"))
	// Project-scoped form entries run the same handlers under the project
	// binding.
	s.registerFormRoutes(p.Group("/forms"))

	t.POST("/uploads/:category", s.RequireRole(authorization.ObjectUpload, authorization.ActionUploadCreate), s.Upload)
}

func (s *Server) registerFormRoutes(g *gin.RouterGroup) {
	g.GET("/:type", s.RequireRole(authorization.ObjectForm, authorization.ActionFormView), s.ListFormEntries)
	g.POST("/:type", s.RequireRole(authorization.ObjectForm, authorization.ActionFormEdit), s.CreateFormEntry)
	g.GET("/:type/:id", s.RequireRole(authorization.ObjectForm, authorization.ActionFormView), s.GetFormEntry)
	g.PATCH("/:type/:id", s.RequireRole(authorization.ObjectForm, authorization.ActionFormEdit), s.UpdateFormEntry)
	g.DELETE("/:type/:id", s.RequireRole(authorization.ObjectForm, authorization.ActionFormEdit), s.DeleteFormEntry)
}
