// Package authorization is the single role gate for the application. The
// policy table lives here and nowhere else; handlers and pages consult it
// through Service.Authorize instead of comparing roles inline.
package authorization

import (
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:embed model.conf
var modelText string

const (
	ObjectTenant     = "tenant"
	ObjectMember     = "member"
	ObjectProject    = "project"
	ObjectInvitation = "invitation"
	ObjectForm       = "form"
	ObjectLookup     = "lookup"
	ObjectUpload     = "upload"
)

const (
	ActionTenantSettingsEdit = "tenant.settings.edit"

	ActionMemberRoleChange = "member.role.change"
	ActionMemberDelete     = "member.delete"
	ActionMemberView       = "member.view"

	ActionProjectCreate       = "project.create"
	ActionProjectView         = "project.view"
	ActionProjectUpdate       = "project.update"
	ActionProjectDelete       = "project.delete"
	ActionProjectMemberAssign = "project.member.assign"
	ActionProjectMemberRemove = "project.member.remove"

	ActionInvitationCreate = "invitation.create"
	ActionInvitationView   = "invitation.view"

	ActionFormView = "form.view"
	ActionFormEdit = "form.edit"

	ActionLookupView   = "lookup.view"
	ActionLookupManage = "lookup.manage"

	ActionUploadCreate = "upload.create"
)

// Roles mirror the membership roles stored on tenant memberships.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// ErrForbidden is returned when the policy denies the action.
var ErrForbidden = errors.New("forbidden")

// Service answers allow/deny for a (role, object, action) triple.
type Service interface {
	Authorize(role, object, action string) error
}

type Params struct {
	fx.In

	Log *zap.Logger
}

type service struct {
	log      *zap.Logger
	enforcer *casbin.Enforcer
}

// policy is the fixed role table. USER holds the baseline grants; MANAGER and
// ADMIN inherit and extend. Project visibility for USER is additionally
// restricted to explicit grants by the project access check.
var policy = [][3]string{
	{RoleUser, ObjectProject, ActionProjectView},
	{RoleUser, ObjectForm, ActionFormView},
	{RoleUser, ObjectForm, ActionFormEdit},
	{RoleUser, ObjectLookup, ActionLookupView},
	{RoleUser, ObjectUpload, ActionUploadCreate},
	{RoleUser, ObjectMember, ActionMemberView},

	{RoleManager, ObjectProject, ActionProjectCreate},
	{RoleManager, ObjectProject, ActionProjectUpdate},
	{RoleManager, ObjectProject, ActionProjectMemberAssign},
	{RoleManager, ObjectProject, ActionProjectMemberRemove},
	{RoleManager, ObjectInvitation, ActionInvitationCreate},
	{RoleManager, ObjectInvitation, ActionInvitationView},
	{RoleManager, ObjectLookup, ActionLookupManage},

	{RoleAdmin, ObjectProject, ActionProjectDelete},
	{RoleAdmin, ObjectMember, ActionMemberRoleChange},
	{RoleAdmin, ObjectMember, ActionMemberDelete},
	{RoleAdmin, ObjectTenant, ActionTenantSettingsEdit},
}

var grouping = [][2]string{
	{RoleAdmin, RoleManager},
	{RoleManager, RoleUser},
}

// NewService builds the enforcer from the embedded model with the fixed
// policy table. No adapter is involved; the table is code, not data.
func NewService(p Params) (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, g := range grouping {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	for _, rule := range policy {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, err
		}
	}

	return &service{
		log:      p.Log.Named("authorization"),
		enforcer: enforcer,
	}, nil
}

func (s *service) Authorize(role, object, action string) error {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return ErrForbidden
	}

	ok, err := s.enforcer.Enforce(role, object, action)
	if err != nil {
		s.log.Error("enforce failed", zap.Error(err),
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// Module wires the role gate.
var Module = fx.Module("authorization",
	fx.Provide(NewService),
)
