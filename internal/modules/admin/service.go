package admin

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/auth"
	"factoryfloor/internal/pkg/validator"
)

type Service struct {
	users UserRepository
	log   *zap.Logger
}

func NewService(users UserRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, log: log}
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, req CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.Validationf("Missing data")
	}
	role := domain.UserRole(req.Role)
	if !validator.Var(string(role), domain.RoleRule) {
		return nil, domain.Validationf("Invalid role")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("username", username), zap.String("role", req.Role), zap.String("by", actor.Username))
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor domain.Actor, id int64, req UpdateUserRequest) error {
	role := domain.UserRole(req.Role)
	if !validator.Var(string(role), domain.RoleRule) {
		return domain.Validationf("Invalid role")
	}
	var hash string
	if req.Password != "" {
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			return err
		}
	}
	if err := s.users.Update(ctx, id, role, hash); err != nil {
		return err
	}
	s.log.Info("user updated",
		zap.Int64("id", id),
		zap.String("role", req.Role),
		zap.Bool("password_changed", hash != ""),
		zap.String("by", actor.Username))
	return nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actor domain.Actor, id int64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Username == actor.Username {
		return domain.Forbiddenf("Cannot delete yourself")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("username", u.Username), zap.String("by", actor.Username))
	return nil
}
