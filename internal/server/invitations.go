package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invitationdomain "github.com/opensigas/sigas/internal/invitation/domain"
)

func (s *Server) CreateInvitation(c *gin.Context) {
	var req invitationdomain.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))

	inv, err := s.invitationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	// The token is returned once, to the creator, for delivery out of band.
	c.JSON(http.StatusCreated, gin.H{
		"invitation": inv,
		"token":      inv.Token,
	})
}

func (s *Server) ListInvitations(c *gin.Context) {
	items, err := s.invitationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) RevokeInvitation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.invitationSvc.Revoke(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) InspectInvitation(c *gin.Context) {
	slug := c.Param("tenant")
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrNotFound)
		return
	}
	preview, err := s.invitationSvc.Inspect(c.Request.Context(), slug, token)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	slug := c.Param("tenant")
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	result, err := s.invitationSvc.Accept(c.Request.Context(), slug, token, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
