// Package tenantctx carries the resolved tenant/project scope and the acting
// member through request contexts. Services read the scope from here instead
// of trusting identifiers repeated in request payloads.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Scope is the tenant (and optional project) binding for a request.
type Scope struct {
	TenantID  snowflake.ID
	ProjectID *snowflake.ID
}

// Member identifies the acting user inside the resolved tenant.
type Member struct {
	UserID   snowflake.ID
	TenantID snowflake.ID
	Role     string
}

type scopeKey struct{}
type memberKey struct{}

// WithScope stores the resolved scope in the context.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the resolved scope, if set.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	if ctx == nil {
		return Scope{}, false
	}
	scope, ok := ctx.Value(scopeKey{}).(Scope)
	if !ok || scope.TenantID == 0 {
		return Scope{}, false
	}
	return scope, true
}

// WithMember stores the acting member in the context.
func WithMember(ctx context.Context, member Member) context.Context {
	return context.WithValue(ctx, memberKey{}, member)
}

// MemberFromContext returns the acting member, if set.
func MemberFromContext(ctx context.Context) (Member, bool) {
	if ctx == nil {
		return Member{}, false
	}
	member, ok := ctx.Value(memberKey{}).(Member)
	if !ok || member.UserID == 0 {
		return Member{}, false
	}
	return member, true
}
