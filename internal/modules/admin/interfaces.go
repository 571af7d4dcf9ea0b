package admin

import (
	"context"

	"factoryfloor/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, role domain.UserRole, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}
