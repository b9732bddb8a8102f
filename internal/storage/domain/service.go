// Package domain contains the file upload contract.
package domain

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrTypeNotAllowed  = errors.New("file type is not allowed")
	ErrUnknownCategory = errors.New("unknown upload category")
)

// Category selects the size ceiling and MIME allow-list for an upload.
type Category string

const (
	// CategoryDocument covers evidence attachments: PDFs and office files.
	CategoryDocument Category = "document"
	// CategoryMedia covers site photos.
	CategoryMedia Category = "media"
)

// Limits for one category.
type Limits struct {
	MaxBytes     int64
	AllowedMIMEs []string
}

// UploadInput is one incoming multipart file.
type UploadInput struct {
	Category    Category
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Service stores uploaded files in the configured bucket.
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}
