package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/opensigas/sigas/internal/config"
	"github.com/opensigas/sigas/internal/identity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	secret []byte
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		secret: []byte(p.Cfg.IdentityJWTSecret),
		log:    p.Log.Named("identity.service"),
		genID:  p.GenID,
		repo:   p.Repo,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *service) VerifyToken(raw string) (*domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(s.secret) == 0 {
		return nil, domain.ErrInvalidToken
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Claims{
		Subject: subject,
		Email:   strings.TrimSpace(claims.Email),
		Name:    strings.TrimSpace(claims.Name),
	}, nil
}

func (s *service) Resolve(ctx context.Context, subject string) (*domain.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, domain.ErrInvalidSubject
	}
	return s.repo.FindBySubject(ctx, subject)
}

func (s *service) Sync(ctx context.Context, user domain.ProviderUser) (*domain.User, error) {
	subject := strings.TrimSpace(user.Subject)
	if subject == "" {
		return nil, domain.ErrInvalidSubject
	}
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	record := &domain.User{
		ID:        s.genID.Generate(),
		Subject:   subject,
		Email:     email,
		Name:      strings.TrimSpace(user.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	// The upsert may have kept an existing row; read it back so callers see
	// the stored id.
	stored, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	s.log.Info("identity mirrored",
		zap.String("subject", subject),
		zap.String("user_id", stored.ID.String()),
	)
	return stored, nil
}

func (s *service) Remove(ctx context.Context, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.ErrInvalidSubject
	}
	return s.repo.DeleteBySubject(ctx, subject)
}
