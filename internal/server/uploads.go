package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	storagedomain "github.com/opensigas/sigas/internal/storage/domain"
)

// maxMultipartMemory bounds in-memory buffering while parsing uploads.
const maxMultipartMemory = 16 << 20

func (s *Server) Upload(c *gin.Context) {
	category := storagedomain.Category(strings.ToLower(strings.TrimSpace(c.Param("category"))))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMultipartMemory)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "multipart field 'file' is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := s.storageSvc.Upload(c.Request.Context(), storagedomain.UploadInput{
		Category:    category,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
