package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListMembers(c *gin.Context) {
	members, err := s.tenantSvc.ListMembers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) ChangeMemberRole(c *gin.Context) {
	targetID, err := snowflake.ParseString(strings.TrimSpace(c.Param("userId")))
	if err != nil || targetID == 0 {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	m, err := s.tenantSvc.ChangeRole(c.Request.Context(), mustMember(c).UserID, targetID, strings.ToUpper(strings.TrimSpace(req.Role)))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) RemoveMember(c *gin.Context) {
	targetID, err := snowflake.ParseString(strings.TrimSpace(c.Param("userId")))
	if err != nil || targetID == 0 {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.tenantSvc.RemoveMember(c.Request.Context(), mustMember(c).UserID, targetID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
