package auth

import (
	"context"

	"factoryfloor/internal/domain"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenIssuer signs the session token stored in the cookie.
type TokenIssuer interface {
	GenerateToken(username, role string) (string, error)
}
