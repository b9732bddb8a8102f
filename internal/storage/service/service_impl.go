// Package service stores uploaded evidence files in an S3-compatible bucket.
package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/opensigas/sigas/internal/config"
	"github.com/opensigas/sigas/internal/storage/domain"
	"github.com/opensigas/sigas/internal/tenantctx"
	"github.com/opensigas/sigas/pkg/scope"
)

var limits = map[domain.Category]domain.Limits{
	domain.CategoryDocument: {
		MaxBytes: 5 * 1024 * 1024,
		AllowedMIMEs: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
	},
	domain.CategoryMedia: {
		MaxBytes: 10 * 1024 * 1024,
		AllowedMIMEs: []string{
			"image/jpeg",
			"image/png",
			"image/webp",
		},
	},
}

// LimitsFor returns the ceiling and allow-list for a category.
func LimitsFor(cat domain.Category) (domain.Limits, bool) {
	l, ok := limits[cat]
	return l, ok
}

// Uploader is the slice of the S3 transfer manager the service needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Uploader Uploader
}

type service struct {
	log      *zap.Logger
	cfg      config.StorageConfig
	uploader Uploader
}

// New constructs the storage service.
func New(p Params) domain.Service {
	return &service{
		log:      p.Log.Named("storage.service"),
		cfg:      p.Cfg.Storage,
		uploader: p.Uploader,
	}
}

// NewUploader builds the S3 transfer manager from configuration. A custom
// endpoint switches the client to path-style addressing for MinIO-style
// stores.
func NewUploader(cfg config.Config) (Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	return manager.NewUploader(client), nil
}

// Validate applies the category limits without touching the network, so the
// handler can reject before reading the body.
func Validate(in domain.UploadInput) error {
	l, ok := limits[in.Category]
	if !ok {
		return domain.ErrUnknownCategory
	}
	if in.Size > l.MaxBytes {
		return domain.ErrFileTooLarge
	}
	ct := strings.ToLower(strings.TrimSpace(in.ContentType))
	for _, allowed := range l.AllowedMIMEs {
		if ct == allowed {
			return nil
		}
	}
	return domain.ErrTypeNotAllowed
}

func (s *service) Upload(ctx context.Context, in domain.UploadInput) (*domain.UploadResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	sc, ok := tenantctx.ScopeFromContext(ctx)
	if !ok {
		return nil, scope.ErrMissingTenant
	}

	// Object keys are tenant-prefixed and never derived from the client
	// file name alone.
	key := path.Join(
		sc.TenantID.String(),
		string(in.Category),
		uuid.NewString()+strings.ToLower(path.Ext(in.FileName)),
	)
	// The reader is capped one byte past the limit to catch clients that
	// understate Content-Length.
	l := limits[in.Category]
	body := io.LimitReader(in.Body, l.MaxBytes+1)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(in.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}

	s.log.Info("file uploaded",
		zap.String("tenant_id", sc.TenantID.String()),
		zap.String("key", key),
		zap.Int64("size", in.Size),
	)
	return &domain.UploadResult{
		URL:      s.objectURL(key),
		FileName: path.Base(in.FileName),
		FileSize: in.Size,
		FileType: in.ContentType,
	}, nil
}

func (s *service) objectURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
