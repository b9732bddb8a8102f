package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	formdomain "github.com/opensigas/sigas/internal/form/domain"
	"github.com/opensigas/sigas/pkg/db/pagination"
)

func (s *Server) ListFormTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.formSvc.Types(c.Request.Context())})
}

func (s *Server) CreateFormEntry(c *gin.Context) {
	var req formdomain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.formSvc.Create(c.Request.Context(), formTypeCode(c), req, mustMember(c).UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) ListFormEntries(c *gin.Context) {
	var pg pagination.Pagination
	if err := c.ShouldBindQuery(&pg); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	entries, info, err := s.formSvc.List(c.Request.Context(), formTypeCode(c), pg)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "page_info": info})
}

func (s *Server) GetFormEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	entry, err := s.formSvc.Get(c.Request.Context(), formTypeCode(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) UpdateFormEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req formdomain.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.formSvc.Update(c.Request.Context(), formTypeCode(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) DeleteFormEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	if err := s.formSvc.Delete(c.Request.Context(), formTypeCode(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func formTypeCode(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Param("type")))
}
