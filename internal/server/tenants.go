package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
)

func (s *Server) CreateTenant(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req tenantdomain.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	t, err := s.tenantSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) GetTenant(c *gin.Context) {
	res, err := s.tenantSvc.Resolve(c.Request.Context(), c.Param(tenantParam), mustMember(c).UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant": res.Tenant,
		"role":   res.Membership.Role,
	})
}

func (s *Server) UpdateTenant(c *gin.Context) {
	var req tenantdomain.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	t, err := s.tenantSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) ListMyTenants(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	items, err := s.tenantSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) RouteAfterLogin(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	decision, err := s.tenantSvc.RouteAfterLogin(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// mustMember returns the member bound by TenantContext. Routes using it are
// always registered behind that middleware.
func mustMember(c *gin.Context) tenantctx.Member {
	member, _ := tenantctx.MemberFromContext(c.Request.Context())
	return member
}
