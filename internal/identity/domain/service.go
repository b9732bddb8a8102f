package domain

import (
	"context"
	"errors"
)

// Claims are the verified identity-provider token claims we rely on.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

// ProviderUser is the payload of an identity-provider lifecycle event.
type ProviderUser struct {
	Subject string
	Email   string
	Name    string
}

type Service interface {
	// VerifyToken validates an IdP-issued bearer token and extracts claims.
	VerifyToken(raw string) (*Claims, error)
	// Resolve maps a verified subject to the local user mirror.
	Resolve(ctx context.Context, subject string) (*User, error)
	// Sync mirrors a created/updated provider user into the local table.
	Sync(ctx context.Context, user ProviderUser) (*User, error)
	// Remove drops the local mirror for a deleted provider user.
	Remove(ctx context.Context, subject string) error
}

type Repository interface {
	FindBySubject(ctx context.Context, subject string) (*User, error)
	Upsert(ctx context.Context, user *User) error
	DeleteBySubject(ctx context.Context, subject string) error
}

var (
	ErrInvalidToken    = errors.New("invalid_token")
	ErrUnknownIdentity = errors.New("unknown_identity")
	ErrInvalidSubject  = errors.New("invalid_subject")
	ErrInvalidEmail    = errors.New("invalid_email")
)
