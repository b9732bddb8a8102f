package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	projectdomain "github.com/opensigas/sigas/internal/project/domain"
)

func (s *Server) CreateProject(c *gin.Context) {
	var req projectdomain.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.projectSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) ListProjects(c *gin.Context) {
	items, err := s.projectSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetProject(c *gin.Context) {
	id, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	p, err := s.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req projectdomain.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.projectSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.projectSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type grantAccessRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (s *Server) GrantProjectAccess(c *gin.Context) {
	projectID, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req grantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user id"))
		return
	}

	grant, err := s.projectSvc.Grant(c.Request.Context(), projectID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (s *Server) RevokeProjectAccess(c *gin.Context) {
	projectID, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.projectSvc.Revoke(c.Request.Context(), projectID, userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListProjectGrants(c *gin.Context) {
	projectID, ok := pathID(c, projectParam)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	grants, err := s.projectSvc.ListGrants(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": grants})
}
